package main

import (
	"flag"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/loopholelabs/userfaultfd-go/pkg/mapper"
	"github.com/loopholelabs/userfaultfd-go/pkg/transfer"
)

// patternSource backs faulting pages with the same deterministic byte
// pattern the measured write passes use, optionally delaying every fill
// to simulate a slow backing store.
type patternSource struct {
	delay time.Duration
}

func (s *patternSource) ReadAt(p []byte, off int64) (int, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	for i := range p {
		p[i] = byte(off + int64(i))
	}

	return len(p), nil
}

func main() {
	socket := flag.String("socket", filepath.Join(os.TempDir(), "pagefault-bench.sock"), "Socket to share the file descriptor over")
	delay := flag.Duration("delay", 0, "Delay to add to every served page")

	flag.Parse()

	_ = os.Remove(*socket)

	addr, err := net.ResolveUnixAddr("unix", *socket)
	if err != nil {
		panic(err)
	}

	lis, err := net.ListenUnix("unix", addr)
	if err != nil {
		panic(err)
	}

	log.Println("Listening on", addr.String())

	for {
		conn, err := lis.AcceptUnix()
		if err != nil {
			panic(err)
		}

		go func() {
			defer func() {
				if err := recover(); err != nil {
					log.Println("Could not handle connection, stopping:", err)
				}

				_ = conn.Close()
			}()

			uffd, start, err := transfer.ReceiveUFFD(conn)
			if err != nil {
				panic(err)
			}

			if err := mapper.Handle(uffd, start, &patternSource{
				delay: *delay,
			}); err != nil {
				panic(err)
			}
		}()
	}
}
