//go:build !linux
// +build !linux

package perf

import "time"

// Monitor stub for non-Linux platforms
type Monitor struct{}

// NewMonitor returns a stub monitor on non-Linux platforms
func NewMonitor() *Monitor {
	return &Monitor{}
}

// Start always fails on non-Linux platforms
func (m *Monitor) Start() error {
	return ErrUnsupported
}

// Stop returns empty counters on non-Linux platforms
func (m *Monitor) Stop() *Counters {
	return &Counters{}
}

// Measure falls back to basic timing on non-Linux platforms
func Measure(fn func() error) (*Counters, error) {
	start := time.Now()
	err := fn()
	return &Counters{Duration: time.Since(start)}, err
}
