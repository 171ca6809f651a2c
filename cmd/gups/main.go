// Copyright ©2024 The GUDA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gups runs the RandomAccess (GUPS) benchmark and reports the
// achieved update rate.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/LynnColeArt/gups"
)

// Exit statuses
const (
	exitOK           = 0
	exitConfigError  = 1
	exitVerifyFailed = 255
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	log.SetFlags(0)
	log.SetPrefix("gups: ")

	fs := flag.NewFlagSet("gups", flag.ContinueOnError)
	var (
		log2Length     = fs.Uint("log2_length", gups.DefaultLog2Length, "table length as a power of two")
		log2Iterations = fs.Uint("log2_iterations", gups.DefaultLog2Iterations, "number of update passes as a power of two")
		verify         = fs.Bool("verify", false, "verify the table after the run")
		configFile     = fs.String("config", "", "INI file with a [gups] section")
		lanes          = fs.Int("lanes", gups.DefaultLanes, "number of independent update streams")
		workers        = fs.Int("workers", 0, "worker goroutines (0 = GOMAXPROCS)")
		roundsPerJoin  = fs.Int("rounds_per_join", gups.DefaultRoundsPerJoin, "rounds each worker runs between joins")
		hugePages      = fs.Bool("huge_pages", false, "back the table with transparent huge pages (Linux)")
		perfCounters   = fs.Bool("perf", false, "collect hardware performance counters (Linux)")
		skipMemCheck   = fs.Bool("skip_memory_check", false, "do not check available memory before allocating")
		logDir         = fs.String("log_dir", "", "directory for JSON result logs")
		printVersion   = fs.Bool("version", false, "print version and exit")
	)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [--log2_length L] [--log2_iterations I] [--verify]\n", os.Args[0])
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitConfigError
	}
	if fs.NArg() > 0 {
		log.Printf("unexpected argument %q", fs.Arg(0))
		return exitConfigError
	}

	if *printVersion {
		version, _ := gups.Version()
		if version == "" {
			version = "(devel)"
		}
		fmt.Println(version)
		return exitOK
	}

	cfg := gups.DefaultRunConfig()
	if *configFile != "" {
		var err error
		if cfg, err = gups.LoadConfig(*configFile); err != nil {
			log.Print(err)
			return exitConfigError
		}
	}

	// Flags given on the command line override the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log2_length":
			cfg.Log2Length = *log2Length
		case "log2_iterations":
			cfg.Log2Iterations = *log2Iterations
		case "verify":
			cfg.Verify = *verify
		case "lanes":
			cfg.Lanes = *lanes
		case "workers":
			cfg.Workers = *workers
		case "rounds_per_join":
			cfg.RoundsPerJoin = *roundsPerJoin
		case "huge_pages":
			cfg.HugePages = *hugePages
		case "perf":
			cfg.PerfCounters = *perfCounters
		case "skip_memory_check":
			cfg.SkipMemoryCheck = *skipMemCheck
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Print(err)
		return exitConfigError
	}

	fmt.Printf("Array length = 2^%d cells\n", cfg.Log2Length)
	fmt.Printf("Number of iterations = 2^%d\n", cfg.Log2Iterations)
	if cfg.Verify {
		fmt.Println("Verification is enabled")
	} else {
		fmt.Println("Verification is disabled")
	}

	var logger *gups.ResultLogger
	if *logDir != "" {
		var err error
		if logger, err = gups.NewResultLogger(*logDir, "gups"); err != nil {
			log.Print(err)
			return exitConfigError
		}
	}
	name := fmt.Sprintf("gups_%d_%d", cfg.Log2Length, cfg.Log2Iterations)

	res, err := gups.Run(cfg)
	if err != nil {
		log.Print(err)
		if logger != nil {
			if err := logger.LogFailure(name, cfg, err); err != nil {
				log.Printf("failed to write result log: %v", err)
			}
		}
		return exitConfigError
	}

	fmt.Printf("System: %s\n", res.System)
	fmt.Printf("Lanes = %d, workers = %d, rounds per join = %d\n",
		cfg.Lanes, res.Workers, cfg.RoundsPerJoin)
	if cfg.HugePages && !res.HugePages {
		log.Print("huge pages requested but not available, using regular pages")
	}
	fmt.Print(res)

	if logger != nil {
		if err := logger.Log(name, res); err != nil {
			log.Printf("failed to write result log: %v", err)
		} else {
			fmt.Printf("Results logged to %s\n", logger.Path())
		}
	}

	if res.Verification != nil {
		fmt.Print(res.Verification)
		if !res.Passed() {
			return exitVerifyFailed
		}
	}
	return exitOK
}
