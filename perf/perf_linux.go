//go:build linux
// +build linux

package perf

import (
	"encoding/binary"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

type event struct {
	name   string
	typ    uint32
	config uint64
	store  func(*Counters, uint64)
}

// cacheConfig creates a cache event configuration
func cacheConfig(cache, op, result int) uint64 {
	return uint64(cache) | (uint64(op) << 8) | (uint64(result) << 16)
}

var events = []event{
	{"cycles", unix.PERF_TYPE_HARDWARE, unix.PERF_COUNT_HW_CPU_CYCLES,
		func(c *Counters, v uint64) { c.Cycles = v }},
	{"instructions", unix.PERF_TYPE_HARDWARE, unix.PERF_COUNT_HW_INSTRUCTIONS,
		func(c *Counters, v uint64) { c.Instructions = v }},
	{"cache-misses", unix.PERF_TYPE_HARDWARE, unix.PERF_COUNT_HW_CACHE_MISSES,
		func(c *Counters, v uint64) { c.CacheMisses = v }},
	{"LLC-load-misses", unix.PERF_TYPE_HW_CACHE,
		cacheConfig(unix.PERF_COUNT_HW_CACHE_LL, unix.PERF_COUNT_HW_CACHE_OP_READ, unix.PERF_COUNT_HW_CACHE_RESULT_MISS),
		func(c *Counters, v uint64) { c.LLCMisses = v }},
	{"dTLB-load-misses", unix.PERF_TYPE_HW_CACHE,
		cacheConfig(unix.PERF_COUNT_HW_CACHE_DTLB, unix.PERF_COUNT_HW_CACHE_OP_READ, unix.PERF_COUNT_HW_CACHE_RESULT_MISS),
		func(c *Counters, v uint64) { c.DTLBMisses = v }},
}

// Monitor provides direct access to hardware performance counters
type Monitor struct {
	fds    []int
	opened []event
	start  time.Time
}

// NewMonitor creates a performance monitor using perf_event_open
func NewMonitor() *Monitor {
	return &Monitor{}
}

// Start opens and enables every counter the kernel allows. Counters are
// inherited by threads created afterwards, so start the monitor before the
// worker goroutines spin up new threads.
func (m *Monitor) Start() error {
	m.close()

	for _, ev := range events {
		attr := &unix.PerfEventAttr{
			Type:   ev.typ,
			Size:   uint32(unsafe.Sizeof(unix.PerfEventAttr{})),
			Config: ev.config,
			Bits:   unix.PerfBitDisabled | unix.PerfBitInherit | unix.PerfBitExcludeKernel | unix.PerfBitExcludeHv,
		}

		// Monitor current process on any CPU
		fd, err := unix.PerfEventOpen(attr, 0, -1, -1, unix.PERF_FLAG_FD_CLOEXEC)
		if err != nil {
			continue
		}
		m.fds = append(m.fds, fd)
		m.opened = append(m.opened, ev)
	}
	if len(m.fds) == 0 {
		return ErrUnsupported
	}

	for _, fd := range m.fds {
		unix.IoctlSetInt(fd, unix.PERF_EVENT_IOC_RESET, 0)
		unix.IoctlSetInt(fd, unix.PERF_EVENT_IOC_ENABLE, 0)
	}
	m.start = time.Now()
	return nil
}

// Stop disables the counters, closes them and returns their values.
func (m *Monitor) Stop() *Counters {
	counters := &Counters{}
	if len(m.fds) == 0 {
		return counters
	}
	counters.Duration = time.Since(m.start)

	var buf [8]byte
	for i, fd := range m.fds {
		unix.IoctlSetInt(fd, unix.PERF_EVENT_IOC_DISABLE, 0)
		if n, err := unix.Read(fd, buf[:]); err == nil && n == len(buf) {
			m.opened[i].store(counters, binary.NativeEndian.Uint64(buf[:]))
		}
	}
	m.close()

	counters.derive()
	return counters
}

func (m *Monitor) close() {
	for _, fd := range m.fds {
		unix.Close(fd)
	}
	m.fds = nil
	m.opened = nil
}

// Measure runs fn with counters enabled. If counters are unavailable fn
// still runs and only the duration is reported.
func Measure(fn func() error) (*Counters, error) {
	m := NewMonitor()
	if err := m.Start(); err != nil {
		start := time.Now()
		err := fn()
		return &Counters{Duration: time.Since(start)}, err
	}

	err := fn()
	counters := m.Stop()
	return counters, err
}
