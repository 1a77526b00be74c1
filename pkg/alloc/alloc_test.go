package alloc

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pojntfx/linux-pagefault-bench/pkg/residency"
)

func TestAllocateAndClose(t *testing.T) {
	size := os.Getpagesize() * 4

	for _, allocator := range Strategies() {
		allocator := allocator

		t.Run(allocator.Name(), func(t *testing.T) {
			buf, err := allocator.Allocate(size)
			require.NoError(t, err)

			b := buf.Bytes()
			require.Len(t, b, size)

			b[0] = 1
			b[size-1] = 1

			require.NoError(t, buf.Close())
			require.NoError(t, buf.Close())
		})
	}
}

func TestByName(t *testing.T) {
	for _, allocator := range Strategies() {
		got, err := ByName(allocator.Name())
		require.NoError(t, err)

		assert.Equal(t, allocator.Name(), got.Name())
	}

	_, err := ByName("tmpfs")
	assert.Error(t, err)
}

func TestHeapRejectsInvalidSize(t *testing.T) {
	_, err := Heap{}.Allocate(0)
	assert.Error(t, err)

	_, err = Heap{}.Allocate(-1)
	assert.Error(t, err)
}

func TestMmapIsLazy(t *testing.T) {
	size := os.Getpagesize() * 64

	buf, err := Mmap{}.Allocate(size)
	require.NoError(t, err)
	defer buf.Close()

	resident, err := residency.Resident(buf.Bytes())
	require.NoError(t, err)

	assert.Less(t, resident, residency.Pages(buf.Bytes()))
}

func TestMmapPopulateIsResident(t *testing.T) {
	size := os.Getpagesize() * 64

	buf, err := Mmap{Populate: true}.Allocate(size)
	require.NoError(t, err)
	defer buf.Close()

	resident, err := residency.Resident(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, residency.Pages(buf.Bytes()), resident)
}

func TestPrefault(t *testing.T) {
	size := os.Getpagesize() * 64

	buf, err := Mmap{}.Allocate(size)
	require.NoError(t, err)
	defer buf.Close()

	Prefault(buf.Bytes())

	resident, err := residency.Resident(buf.Bytes())
	require.NoError(t, err)

	pages := residency.Pages(buf.Bytes())

	// Pre-5.14 kernels reject MADV_POPULATE_WRITE and leave the mapping
	// lazy, so either nothing or everything is resident.
	assert.Contains(t, []int{0, pages}, resident)

	// The buffer must stay writable either way
	buf.Bytes()[0] = 1
}
