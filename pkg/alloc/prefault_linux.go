//go:build linux

package alloc

import "golang.org/x/sys/unix"

// MADV_POPULATE_WRITE was added in Linux 5.14. On older kernels madvise
// returns EINVAL, which Prefault ignores.
const madvPopulateWrite = 23

// Prefault asks the kernel to fault in every page of b for writing, so a
// later pass over the buffer finds the pages already resident. Best
// effort: errors are discarded and the mapping stays lazy.
func Prefault(b []byte) {
	if len(b) == 0 {
		return
	}

	_ = unix.Madvise(b, madvPopulateWrite)
}
