// Package perf collects hardware performance counters around a benchmark
// kernel. Counters are best effort: hosts without perf_event access simply
// report nothing.
package perf

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnsupported is returned by Start when no counter could be opened.
var ErrUnsupported = errors.New("perf: hardware counters unavailable")

// Counters holds performance counter measurements
type Counters struct {
	Duration time.Duration `json:"duration"`

	Cycles       uint64 `json:"cycles,omitempty"`
	Instructions uint64 `json:"instructions,omitempty"`
	CacheMisses  uint64 `json:"cache_misses,omitempty"`
	LLCMisses    uint64 `json:"llc_misses,omitempty"`
	DTLBMisses   uint64 `json:"dtlb_misses,omitempty"`

	// Derived metrics
	IPC float64 `json:"ipc,omitempty"`
}

func (c *Counters) derive() {
	if c.Cycles > 0 {
		c.IPC = float64(c.Instructions) / float64(c.Cycles)
	}
}

// PerUpdate normalizes the miss counters to one table update.
func (c *Counters) PerUpdate(updates uint64) (llc, dtlb float64) {
	if updates == 0 {
		return 0, 0
	}
	return float64(c.LLCMisses) / float64(updates), float64(c.DTLBMisses) / float64(updates)
}

// String formats performance counters for display
func (c *Counters) String() string {
	var sb strings.Builder

	sb.WriteString("Performance Counters:\n")
	if c.Duration > 0 {
		sb.WriteString(fmt.Sprintf("  Duration:          %v\n", c.Duration))
	}
	if c.Cycles > 0 {
		sb.WriteString(fmt.Sprintf("  CPU Cycles:        %d\n", c.Cycles))
		sb.WriteString(fmt.Sprintf("  Instructions:      %d\n", c.Instructions))
		sb.WriteString(fmt.Sprintf("  IPC:               %.2f\n", c.IPC))
	}
	if c.CacheMisses > 0 {
		sb.WriteString(fmt.Sprintf("  Cache Misses:      %d\n", c.CacheMisses))
	}
	if c.LLCMisses > 0 {
		sb.WriteString(fmt.Sprintf("  LLC Load Misses:   %d\n", c.LLCMisses))
	}
	if c.DTLBMisses > 0 {
		sb.WriteString(fmt.Sprintf("  dTLB Load Misses:  %d\n", c.DTLBMisses))
	}
	return sb.String()
}
