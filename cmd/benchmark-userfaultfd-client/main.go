package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/loopholelabs/userfaultfd-go/pkg/mapper"
	"github.com/loopholelabs/userfaultfd-go/pkg/transfer"

	"github.com/pojntfx/linux-pagefault-bench/pkg/metrics"
)

var sink int64

func main() {
	size := flag.Int("size", os.Getpagesize()*1024, "Amount of bytes to register")
	socket := flag.String("socket", filepath.Join(os.TempDir(), "pagefault-bench.sock"), "Socket the fault server listens on")

	flag.Parse()

	addr, err := net.ResolveUnixAddr("unix", *socket)
	if err != nil {
		panic(err)
	}

	conn, err := net.DialUnix("unix", nil, addr)
	if err != nil {
		panic(err)
	}

	log.Println("Connected to", conn.RemoteAddr())

	b, uffd, start, err := mapper.Register(*size)
	if err != nil {
		panic(err)
	}

	if err := transfer.SendUFFD(conn, uffd, start); err != nil {
		panic(err)
	}

	fmt.Printf("\n=== Handler-served read test (%d KB) ===\n", *size/1024)

	faultsStart := metrics.Faults()
	cpuStart := metrics.CPUTime()
	beforeRead := time.Now()

	var sum int64
	for i := 0; i < *size; i++ {
		sum += int64(b[i])
	}
	sink = sum

	wall := time.Since(beforeRead)
	faults := metrics.Faults() - faultsStart
	cpu := metrics.CPUTime() - cpuStart

	kbPerFault := 0.0
	if faults > 0 {
		kbPerFault = float64(*size) / float64(faults*1024)
	}

	fmt.Printf("Read:  %d page faults, %.2f KB/fault, %.3f ms CPU\n",
		faults, kbPerFault, metrics.NsToMs(cpu))
	// Wall time includes the handler round trips the CPU clock does not
	// see while the process is blocked
	fmt.Printf("Total time: %.3f ms wall\n", metrics.NsToMs(wall.Nanoseconds()))
}
