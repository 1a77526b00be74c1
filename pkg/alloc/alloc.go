// Package alloc provides the buffer allocation strategies the benchmarks
// measure against each other.
package alloc

import (
	"fmt"

	mmapgo "github.com/edsrzf/mmap-go"
	"golang.org/x/sys/unix"
)

// Buffer is a contiguous byte region exclusively owned by its allocator's
// caller. Close releases it; the bytes must not be used afterwards. Close
// is idempotent.
type Buffer interface {
	Bytes() []byte
	Close() error
}

// Allocator produces buffers with a particular mapping strategy.
type Allocator interface {
	Name() string
	Allocate(size int) (Buffer, error)
}

// Heap allocates from the Go heap, the closest analog to malloc. Pages
// for large allocations are committed lazily on first touch, but the
// runtime may hand back memory that is already resident.
type Heap struct{}

func (Heap) Name() string { return "heap" }

func (Heap) Allocate(size int) (Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid buffer size %d", size)
	}

	return &heapBuffer{b: make([]byte, size)}, nil
}

type heapBuffer struct {
	b []byte
}

func (b *heapBuffer) Bytes() []byte { return b.b }

func (b *heapBuffer) Close() error {
	b.b = nil

	return nil
}

// Mmap maps anonymous memory directly. Pages become resident on first
// touch unless Populate is set, in which case the kernel pre-faults the
// whole mapping at map time.
type Mmap struct {
	Populate bool
}

func (m Mmap) Name() string {
	if m.Populate {
		return "mmap-populate"
	}

	return "mmap"
}

func (m Mmap) Allocate(size int) (Buffer, error) {
	flags := unix.MAP_PRIVATE | unix.MAP_ANONYMOUS
	if m.Populate {
		flags |= unix.MAP_POPULATE
	}

	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, flags)
	if err != nil {
		return nil, fmt.Errorf("failed to map %d bytes: %w", size, err)
	}

	return &mmapBuffer{b: b}, nil
}

type mmapBuffer struct {
	b []byte
}

func (b *mmapBuffer) Bytes() []byte { return b.b }

func (b *mmapBuffer) Close() error {
	if b.b == nil {
		return nil
	}

	err := unix.Munmap(b.b)
	b.b = nil

	return err
}

// MmapGo maps anonymous memory through github.com/edsrzf/mmap-go.
type MmapGo struct{}

func (MmapGo) Name() string { return "mmap-go" }

func (MmapGo) Allocate(size int) (Buffer, error) {
	m, err := mmapgo.MapRegion(nil, size, mmapgo.RDWR, mmapgo.ANON, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to map %d bytes: %w", size, err)
	}

	return &mmapGoBuffer{m: m}, nil
}

type mmapGoBuffer struct {
	m mmapgo.MMap
}

func (b *mmapGoBuffer) Bytes() []byte { return b.m }

func (b *mmapGoBuffer) Close() error {
	if b.m == nil {
		return nil
	}

	return b.m.Unmap()
}

// Strategies lists the selectable allocators in a stable order.
func Strategies() []Allocator {
	return []Allocator{
		Heap{},
		Mmap{},
		Mmap{Populate: true},
		MmapGo{},
	}
}

// ByName returns the allocator registered under the given name.
func ByName(name string) (Allocator, error) {
	for _, a := range Strategies() {
		if a.Name() == name {
			return a, nil
		}
	}

	return nil, fmt.Errorf("unknown allocation strategy %q", name)
}
