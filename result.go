package gups

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/LynnColeArt/gups/perf"
)

// Result captures one benchmark run. It is produced once per run and handed
// to the reporting side.
type Result struct {
	Config       RunConfig      `json:"config"`
	Elapsed      time.Duration  `json:"elapsed"`
	Updates      uint64         `json:"updates"`
	GigaUpdates  float64        `json:"giga_updates"`
	GUPS         float64        `json:"gups"`
	Workers      int            `json:"workers"`
	HugePages    bool           `json:"huge_pages"`
	Verification *Verification  `json:"verification,omitempty"`
	Counters     *perf.Counters `json:"counters,omitempty"`
	System       SystemInfo     `json:"system"`
}

// setRate derives the update totals and rate from the configuration and
// the measured time.
func (r *Result) setRate(elapsed time.Duration) {
	r.Elapsed = elapsed
	r.Updates = r.Config.Iterations() * r.Config.Updates()
	r.GigaUpdates = 1e-9 * float64(r.Updates)
	r.GUPS = Rate(r.GigaUpdates, elapsed)
}

// Rate converts giga-updates over a duration into GUPS. A non-positive
// duration yields 0 rather than an infinite rate.
func Rate(gigaUpdates float64, elapsed time.Duration) float64 {
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		return 0
	}
	gups := gigaUpdates / seconds
	if math.IsInf(gups, 0) || math.IsNaN(gups) {
		return 0
	}
	return gups
}

// Verified reports whether verification was requested for this run.
func (r *Result) Verified() bool {
	return r.Verification != nil
}

// Passed is true unless verification ran and failed.
func (r *Result) Passed() bool {
	return r.Verification == nil || r.Verification.Passed
}

// String renders the report lines of the reference benchmark.
func (r *Result) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("giga updates = %g\n", r.GigaUpdates))
	sb.WriteString(fmt.Sprintf("seconds elapsed = %g\n", r.Elapsed.Seconds()))
	sb.WriteString(fmt.Sprintf("GUPS (Giga updates per second) = %g\n", r.GUPS))
	if r.Counters != nil && r.Counters.Cycles > 0 {
		llc, dtlb := r.Counters.PerUpdate(r.Updates)
		sb.WriteString(r.Counters.String())
		sb.WriteString(fmt.Sprintf("  LLC misses/update: %.3f\n", llc))
		sb.WriteString(fmt.Sprintf("  dTLB misses/update: %.3f\n", dtlb))
	}
	return sb.String()
}
