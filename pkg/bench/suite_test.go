package bench

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pojntfx/linux-pagefault-bench/pkg/alloc"
)

func TestRunReportStructure(t *testing.T) {
	out := &bytes.Buffer{}
	suite := &Suite{
		Allocator: alloc.Mmap{},
		Output:    out,
	}

	pageSize := os.Getpagesize()
	sizes := []int{pageSize, pageSize * 4, pageSize * 64, 1024 * 1024}

	suite.Run("First Run", sizes)
	suite.Run("Second Run", sizes)

	report := out.String()

	assert.Equal(t, 1, strings.Count(report, "==================== First Run ===================="))
	assert.Equal(t, 1, strings.Count(report, "==================== Second Run ===================="))

	// Two runs of four sizes, each with one cold block, one warm block
	// and one summary
	assert.Equal(t, 8, strings.Count(report, "=== Fresh allocation test ("))
	assert.Equal(t, 8, strings.Count(report, "=== Reused buffer test ("))
	assert.Equal(t, 8, strings.Count(report, "--- Summary for "))
	assert.Equal(t, 8, strings.Count(report, "Time saved: "))

	// Per-size blocks appear in the order the sizes were given
	for _, run := range strings.Split(report, "====================")[1:] {
		last := -1
		for _, size := range sizes {
			header := fmt.Sprintf("=== Fresh allocation test (%d KB) ===", size/1024)
			idx := strings.Index(run, header)
			if idx < 0 {
				continue
			}

			assert.Greater(t, idx, last)
			last = idx
		}
	}
}

func TestRunColdBlockPrecedesWarmBlock(t *testing.T) {
	out := &bytes.Buffer{}
	suite := &Suite{
		Allocator: alloc.Mmap{},
		Output:    out,
	}

	suite.Run("First Run", []int{os.Getpagesize() * 4})

	report := out.String()

	cold := strings.Index(report, "=== Fresh allocation test (")
	warm := strings.Index(report, "=== Reused buffer test (")
	summary := strings.Index(report, "--- Summary for ")

	assert.Greater(t, cold, -1)
	assert.Greater(t, warm, cold)
	assert.Greater(t, summary, warm)
}
