package metrics

import "golang.org/x/sys/unix"

// Faults returns the cumulative number of page faults, major plus minor,
// the process has taken since it started. The count is monotonically
// non-decreasing; only differences between two calls are meaningful. If
// the rusage query fails the zero-valued counters are summed, so callers
// see 0 rather than an error.
func Faults() int64 {
	var ru unix.Rusage
	_ = unix.Getrusage(unix.RUSAGE_SELF, &ru)

	return int64(ru.Majflt) + int64(ru.Minflt)
}

// CPUTime returns the process-scoped CPU clock in nanoseconds. The
// absolute value has no standalone interpretation; only differences
// between two calls are meaningful. A failed clock query yields 0.
func CPUTime() int64 {
	var ts unix.Timespec
	_ = unix.ClockGettime(unix.CLOCK_PROCESS_CPUTIME_ID, &ts)

	return ts.Nano()
}

// NsToMs converts a nanosecond duration to milliseconds.
func NsToMs(ns int64) float64 {
	return float64(ns) / 1000000.0
}
