package bench

import (
	"fmt"

	"github.com/pojntfx/linux-pagefault-bench/pkg/metrics"
)

// Run benchmarks every size in order, cold then warm, and prints a
// per-size summary comparing the two. Each call allocates its own buffer,
// so no residency carries over between the cold and warm runs or across
// sizes. An allocation failure is reported and treated as a zero
// measurement so the remaining sizes still run.
func (s *Suite) Run(label string, sizes []int) {
	fmt.Fprintf(s.Output, "\n==================== %s ====================\n", label)

	for _, size := range sizes {
		cold, err := s.Cold(size)
		if err != nil {
			fmt.Fprintf(s.Output, "Cold benchmark failed: %v\n", err)
		}

		warm, err := s.Warm(size)
		if err != nil {
			fmt.Fprintf(s.Output, "Warm benchmark failed: %v\n", err)
		}

		coldMs := metrics.NsToMs(cold.Total.Nanoseconds())
		warmMs := metrics.NsToMs(warm.Total.Nanoseconds())

		fmt.Fprintf(s.Output, "\n--- Summary for %d KB ---\n", size/1024)
		fmt.Fprintf(s.Output, "Time saved: %.3f ms (%.1fx speedup)\n", coldMs-warmMs, speedup(coldMs, warmMs))
		fmt.Fprintln(s.Output)
	}
}

// speedup is 0 rather than Inf or negative when the warm duration is not
// a usable divisor.
func speedup(coldMs, warmMs float64) float64 {
	if warmMs <= 0 {
		return 0
	}

	return coldMs / warmMs
}
