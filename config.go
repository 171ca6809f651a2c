// Package gups configuration constants and run configuration
package gups

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Sequence parameters of the HPCC RandomAccess generator
const (
	// Poly is the feedback polynomial applied when the sign bit shifts out
	Poly uint64 = 0x0000000000000007

	// Period of the recurrence as defined by the HPCC reference code
	Period int64 = 1317624576693539401
)

// Table and lane parameters
const (
	// DefaultLanes is the number of independent sequence streams
	DefaultLanes = 128

	// UpdatesPerCell is the suggested number of updates per table entry
	UpdatesPerCell = 4

	// ErrorTolerance is the fraction of table entries allowed to be wrong
	// after verification
	ErrorTolerance = 0.01

	// MaxLog2Length bounds the table size exponent (8 TiB of words)
	MaxLog2Length = 40

	// MaxLog2Iterations bounds the iteration count exponent
	MaxLog2Iterations = 32
)

// Defaults for the command line collaborator
const (
	// DefaultLog2Length gives a 2^27 cell (1 GiB) table
	DefaultLog2Length = 27

	// DefaultLog2Iterations gives a single iteration
	DefaultLog2Iterations = 0

	// DefaultRoundsPerJoin joins all lanes after every round
	DefaultRoundsPerJoin = 1

	// ConfigSection is the INI section holding run settings
	ConfigSection = "gups"
)

// RunConfig is immutable for the duration of a run.
type RunConfig struct {
	Log2Length      uint `ini:"log2_length"`
	Log2Iterations  uint `ini:"log2_iterations"`
	Verify          bool `ini:"verify"`
	Lanes           int  `ini:"lanes"`
	Workers         int  `ini:"workers"` // 0 selects GOMAXPROCS
	RoundsPerJoin   int  `ini:"rounds_per_join"`
	HugePages       bool `ini:"huge_pages"`
	PerfCounters    bool `ini:"perf_counters"`
	SkipMemoryCheck bool `ini:"skip_memory_check"`
}

// DefaultRunConfig returns the configuration of the reference benchmark
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Log2Length:     DefaultLog2Length,
		Log2Iterations: DefaultLog2Iterations,
		Lanes:          DefaultLanes,
		RoundsPerJoin:  DefaultRoundsPerJoin,
	}
}

// Length returns the number of table cells
func (c RunConfig) Length() uint64 {
	return 1 << c.Log2Length
}

// Updates returns the number of updates per iteration
func (c RunConfig) Updates() uint64 {
	return c.Length() * UpdatesPerCell
}

// Iterations returns the number of times the update pass is repeated
func (c RunConfig) Iterations() uint64 {
	return 1 << c.Log2Iterations
}

// Validate checks the configuration before any memory is committed
func (c RunConfig) Validate() error {
	if c.Log2Length > MaxLog2Length {
		return NewInvalidArgError("Validate",
			fmt.Sprintf("log2_length %d exceeds %d", c.Log2Length, MaxLog2Length))
	}
	if c.Log2Iterations > MaxLog2Iterations {
		return NewInvalidArgError("Validate",
			fmt.Sprintf("log2_iterations %d exceeds %d", c.Log2Iterations, MaxLog2Iterations))
	}
	if c.Lanes <= 0 {
		return NewInvalidArgError("Validate", "lanes must be positive")
	}
	if c.Workers < 0 {
		return NewInvalidArgError("Validate", "workers must not be negative")
	}
	if c.RoundsPerJoin <= 0 {
		return NewInvalidArgError("Validate", "rounds_per_join must be positive")
	}
	if c.Updates()%uint64(c.Lanes) != 0 {
		return NewInvalidArgError("Validate",
			fmt.Sprintf("%d updates cannot be split evenly over %d lanes", c.Updates(), c.Lanes))
	}
	return nil
}

// LoadConfig reads the [gups] section of an INI file over the defaults.
// Keys missing from the file keep their default values.
func LoadConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()

	iniOpt := ini.LoadOptions{
		Insensitive: true,
	}
	iniCfg, err := ini.LoadSources(iniOpt, path)
	if err != nil {
		return cfg, NewInvalidArgError("LoadConfig", err.Error())
	}
	section, err := iniCfg.GetSection(ConfigSection)
	if err != nil {
		return cfg, NewInvalidArgError("LoadConfig",
			fmt.Sprintf("%s: missing [%s] section", path, ConfigSection))
	}
	if err := section.StrictMapTo(&cfg); err != nil {
		return cfg, NewInvalidArgError("LoadConfig", err.Error())
	}
	return cfg, cfg.Validate()
}
