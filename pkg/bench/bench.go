// Package bench measures the page-fault and CPU-time cost of sequential
// write and read passes over cold and warm buffers.
package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/pojntfx/linux-pagefault-bench/pkg/alloc"
	"github.com/pojntfx/linux-pagefault-bench/pkg/metrics"
)

// sink keeps the read passes observable so the compiler cannot drop them.
var sink int64

// Result holds the fault and CPU-time deltas of one measured write/read
// pass over a buffer. Total is measured end to end, so it always equals
// Write plus Read exactly.
type Result struct {
	WriteFaults int64
	ReadFaults  int64
	WriteTime   time.Duration
	ReadTime    time.Duration
	Total       time.Duration
}

// Suite runs cold and warm benchmarks with one allocation strategy and
// writes their reports to Output.
type Suite struct {
	Allocator alloc.Allocator
	Output    io.Writer
}

// Cold allocates a fresh buffer and measures the first-touch write pass
// and the read pass that follows it. The first sample is taken before the
// allocator runs, so faults taken during allocation itself land in the
// write-phase delta.
func (s *Suite) Cold(size int) (Result, error) {
	fmt.Fprintf(s.Output, "\n=== Fresh allocation test (%d KB) ===\n", size/1024)

	faultsStart := metrics.Faults()
	cpuStart := metrics.CPUTime()

	buf, err := s.Allocator.Allocate(size)
	if err != nil {
		fmt.Fprintln(s.Output, "Allocation failed")

		return Result{}, fmt.Errorf("failed to allocate %d bytes: %w", size, err)
	}
	defer buf.Close()

	b := buf.Bytes()

	writePass(b, 0)

	faultsWrite := metrics.Faults()
	cpuWrite := metrics.CPUTime()

	sink = readPass(b)

	faultsEnd := metrics.Faults()
	cpuEnd := metrics.CPUTime()

	res := Result{
		WriteFaults: faultsWrite - faultsStart,
		ReadFaults:  faultsEnd - faultsWrite,
		WriteTime:   time.Duration(cpuWrite - cpuStart),
		ReadTime:    time.Duration(cpuEnd - cpuWrite),
		Total:       time.Duration(cpuEnd - cpuStart),
	}

	s.report(size, res)

	return res, nil
}

// Warm allocates a buffer and touches every byte before any sample is
// taken, pre-paying the fault cost outside the measured window. It then
// measures a second write pass and a read pass over the now resident
// buffer. The measured write uses a shifted pattern; the values are never
// validated, only summed.
func (s *Suite) Warm(size int) (Result, error) {
	fmt.Fprintf(s.Output, "\n=== Reused buffer test (%d KB) ===\n", size/1024)

	buf, err := s.Allocator.Allocate(size)
	if err != nil {
		fmt.Fprintln(s.Output, "Allocation failed")

		return Result{}, fmt.Errorf("failed to allocate %d bytes: %w", size, err)
	}
	defer buf.Close()

	b := buf.Bytes()

	writePass(b, 0)

	faultsStart := metrics.Faults()
	cpuStart := metrics.CPUTime()

	writePass(b, 1)

	faultsWrite := metrics.Faults()
	cpuWrite := metrics.CPUTime()

	sink = readPass(b)

	faultsEnd := metrics.Faults()
	cpuEnd := metrics.CPUTime()

	res := Result{
		WriteFaults: faultsWrite - faultsStart,
		ReadFaults:  faultsEnd - faultsWrite,
		WriteTime:   time.Duration(cpuWrite - cpuStart),
		ReadTime:    time.Duration(cpuEnd - cpuWrite),
		Total:       time.Duration(cpuEnd - cpuStart),
	}

	s.report(size, res)

	return res, nil
}

// writePass writes a deterministic pattern to every byte in ascending
// index order, faulting in any page that is not yet resident.
func writePass(b []byte, shift byte) {
	for i := range b {
		b[i] = byte(i) + shift
	}
}

// readPass sums every byte so the loop has an observable result.
func readPass(b []byte) int64 {
	var sum int64
	for i := range b {
		sum += int64(b[i])
	}

	return sum
}

func (s *Suite) report(size int, res Result) {
	// 0 rather than Inf when the write pass took no faults at all
	kbPerFault := 0.0
	if res.WriteFaults > 0 {
		kbPerFault = float64(size) / float64(res.WriteFaults*1024)
	}

	fmt.Fprintf(s.Output, "Write: %d page faults, %.2f KB/fault, %.3f ms\n",
		res.WriteFaults, kbPerFault, metrics.NsToMs(res.WriteTime.Nanoseconds()))
	fmt.Fprintf(s.Output, "Read:  %d page faults, %.3f ms\n",
		res.ReadFaults, metrics.NsToMs(res.ReadTime.Nanoseconds()))
	fmt.Fprintf(s.Output, "Total time: %.3f ms\n", metrics.NsToMs(res.Total.Nanoseconds()))
}
