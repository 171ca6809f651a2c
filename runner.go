package gups

import (
	"time"

	"github.com/LynnColeArt/gups/perf"
)

// Run executes one benchmark described by cfg: it allocates and initializes
// the table, times the lane seeding and update passes, optionally verifies
// the table and releases it.
//
// Table initialization and verification are not part of the measured time.
// Seeding the lanes is, as in the HPCC reference code.
func Run(cfg RunConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []TableOption
	if cfg.HugePages {
		opts = append(opts, WithHugePages())
	}
	if cfg.SkipMemoryCheck {
		opts = append(opts, WithoutMemoryCheck())
	}
	table, err := NewTable(cfg.Log2Length, opts...)
	if err != nil {
		return nil, err
	}
	defer table.Release()

	res := &Result{
		Config:    cfg,
		HugePages: table.HugePages(),
		System:    DetectSystem(),
	}

	var engine *Engine
	kernel := func() error {
		var err error
		engine, err = NewEngine(table, cfg.Updates(),
			WithLanes(cfg.Lanes),
			WithWorkers(cfg.Workers),
			WithRoundsPerJoin(cfg.RoundsPerJoin))
		if err != nil {
			return err
		}
		return engine.Run(cfg.Iterations())
	}

	start := time.Now()
	if cfg.PerfCounters {
		res.Counters, err = perf.Measure(kernel)
	} else {
		err = kernel()
	}
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}
	res.Workers = engine.Workers()
	res.setRate(elapsed)

	if cfg.Verify {
		v := Verify(table, cfg.Updates())
		res.Verification = &v
	}

	if err := engine.Release(); err != nil {
		return res, err
	}
	return res, nil
}
