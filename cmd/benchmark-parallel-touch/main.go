package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/pojntfx/linux-pagefault-bench/pkg/metrics"
)

func main() {
	size := flag.Int("size", os.Getpagesize()*65536, "Amount of bytes to map")
	workers := flag.Int("workers", runtime.NumCPU(), "Concurrent touch goroutines")

	flag.Parse()

	pageSize := os.Getpagesize()

	b, err := unix.Mmap(
		-1,
		0,
		*size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS,
	)
	if err != nil {
		panic(err)
	}
	defer unix.Munmap(b)

	pages := *size / pageSize

	faultsStart := metrics.Faults()
	beforeTouch := time.Now()

	var touchers errgroup.Group
	for w := 0; w < *workers; w++ {
		w := w

		touchers.Go(func() error {
			// Workers stride the page range so the fault load spreads
			// evenly
			for page := w; page < pages; page += *workers {
				b[page*pageSize] = 1
			}

			return nil
		})
	}
	if err := touchers.Wait(); err != nil {
		panic(err)
	}

	afterTouch := time.Since(beforeTouch)
	faults := metrics.Faults() - faultsStart

	fmt.Printf("Touched %d pages with %d workers: %d page faults, %.3f ms (%.3f µs/page)\n",
		pages,
		*workers,
		faults,
		metrics.NsToMs(afterTouch.Nanoseconds()),
		float64(afterTouch.Nanoseconds())/float64(pages)/1000,
	)
}
