package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pojntfx/linux-pagefault-bench/pkg/alloc"
	"github.com/pojntfx/linux-pagefault-bench/pkg/bench"
	"github.com/pojntfx/linux-pagefault-bench/pkg/residency"
)

func main() {
	size := flag.Int("size", os.Getpagesize()*64, "Buffer size to benchmark")
	prefault := flag.Bool("prefault", false, "Prefault buffers with madvise before the residency probe")

	flag.Parse()

	for _, allocator := range alloc.Strategies() {
		buf, err := allocator.Allocate(*size)
		if err != nil {
			panic(err)
		}

		if *prefault {
			alloc.Prefault(buf.Bytes())
		}

		resident, err := residency.Resident(buf.Bytes())
		if err != nil {
			panic(err)
		}

		fmt.Printf("\nStrategy %s: %d/%d pages resident before first touch\n",
			allocator.Name(), resident, residency.Pages(buf.Bytes()))

		if err := buf.Close(); err != nil {
			panic(err)
		}

		suite := &bench.Suite{
			Allocator: allocator,
			Output:    os.Stdout,
		}

		suite.Run(allocator.Name(), []int{*size})
	}
}
