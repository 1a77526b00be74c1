package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pojntfx/linux-pagefault-bench/pkg/alloc"
	"github.com/pojntfx/linux-pagefault-bench/pkg/bench"
)

func main() {
	pageSize := os.Getpagesize()

	runs := flag.Int("runs", 2, "Number of times to run the full suite")
	sizes := flag.String("sizes", "", "Comma-separated buffer sizes in bytes (defaults to 1, 4 and 64 pages plus 1 MiB)")
	strategy := flag.String("strategy", alloc.Heap{}.Name(), "Allocation strategy to benchmark (heap, mmap, mmap-populate or mmap-go)")

	flag.Parse()

	fmt.Printf("System page size %d bytes (%d KB)\n", pageSize, pageSize/1024)

	testSizes := []int{
		pageSize,      // 1 page
		pageSize * 4,  // 4 pages
		pageSize * 64, // 64 pages
		1024 * 1024,   // 1 MiB regardless of the page size
	}
	if *sizes != "" {
		testSizes = testSizes[:0]

		for _, field := range strings.Split(*sizes, ",") {
			size, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				panic(err)
			}

			testSizes = append(testSizes, size)
		}
	}

	allocator, err := alloc.ByName(*strategy)
	if err != nil {
		panic(err)
	}

	suite := &bench.Suite{
		Allocator: allocator,
		Output:    os.Stdout,
	}

	labels := []string{"First Run", "Second Run"}
	for run := 0; run < *runs; run++ {
		label := fmt.Sprintf("Run %d", run+1)
		if run < len(labels) {
			label = labels[run]
		}

		suite.Run(label, testSizes)
	}
}
