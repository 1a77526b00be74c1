// Package residency reports which pages of a buffer are currently backed
// by physical frames, by reading /proc/self/pagemap.
package residency

import (
	"encoding/binary"
	"fmt"
	"os"
	"unsafe"
)

// Each pagemap entry is 8 bytes and represents one page. Bit 63 is the
// present bit.
const (
	entrySize   = 8
	presentMask = uint64(1) << 63
)

// Pages returns the number of pages the buffer spans.
func Pages(b []byte) int {
	if len(b) == 0 {
		return 0
	}

	pageSize := uintptr(os.Getpagesize())

	start := uintptr(unsafe.Pointer(&b[0])) &^ (pageSize - 1)
	end := (uintptr(unsafe.Pointer(&b[0])) + uintptr(len(b)) + pageSize - 1) &^ (pageSize - 1)

	return int((end - start) / pageSize)
}

// Resident counts how many of the buffer's pages are resident. The
// present bit is readable without privileges; only PFN fields are masked
// for unprivileged readers.
func Resident(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	pageSize := uintptr(os.Getpagesize())

	file, err := os.Open("/proc/self/pagemap")
	if err != nil {
		return 0, fmt.Errorf("failed to open pagemap: %w", err)
	}
	defer file.Close()

	start := uintptr(unsafe.Pointer(&b[0])) &^ (pageSize - 1)
	end := uintptr(unsafe.Pointer(&b[0])) + uintptr(len(b))

	resident := 0
	for addr := start; addr < end; addr += pageSize {
		offset := int64(addr / pageSize * entrySize)

		var entry [entrySize]byte
		if _, err := file.ReadAt(entry[:], offset); err != nil {
			return 0, fmt.Errorf("failed to read pagemap entry at %x: %w", addr, err)
		}

		if binary.LittleEndian.Uint64(entry[:])&presentMask != 0 {
			resident++
		}
	}

	return resident, nil
}
