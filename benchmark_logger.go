package gups

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/LynnColeArt/gups/perf"
)

// Run statuses recorded in the log
const (
	StatusPass       = "pass"
	StatusFail       = "fail"
	StatusUnverified = "unverified"
	StatusError      = "error"
)

// LoggedRun captures one run in a session log
type LoggedRun struct {
	Name           string         `json:"name"`
	Status         string         `json:"status"`
	Log2Length     uint           `json:"log2_length"`
	Log2Iterations uint           `json:"log2_iterations"`
	Lanes          int            `json:"lanes,omitempty"`
	Workers        int            `json:"workers,omitempty"`
	Updates        uint64         `json:"updates,omitempty"`
	Duration       time.Duration  `json:"duration,omitempty"`
	GUPS           float64        `json:"gups,omitempty"`
	Errors         *uint64        `json:"errors,omitempty"`
	Counters       *perf.Counters `json:"counters,omitempty"`
	System         *SystemInfo    `json:"system,omitempty"`
	Error          string         `json:"error,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}

// ResultLogger appends runs to a JSON session file
type ResultLogger struct {
	mu          sync.Mutex
	runs        []LoggedRun
	sessionFile string
}

// NewResultLogger creates dir if needed and starts a new session file named
// after session and the current time.
func NewResultLogger(dir, session string) (*ResultLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	l := &ResultLogger{
		sessionFile: filepath.Join(dir, fmt.Sprintf("%s_%s.json", session, timestamp)),
	}
	if err := l.flush(); err != nil {
		return nil, err
	}
	return l, nil
}

// Path returns the session file
func (l *ResultLogger) Path() string {
	return l.sessionFile
}

// Log records a finished run
func (l *ResultLogger) Log(name string, r *Result) error {
	run := LoggedRun{
		Name:           name,
		Status:         StatusUnverified,
		Log2Length:     r.Config.Log2Length,
		Log2Iterations: r.Config.Log2Iterations,
		Lanes:          r.Config.Lanes,
		Workers:        r.Workers,
		Updates:        r.Updates,
		Duration:       r.Elapsed,
		GUPS:           r.GUPS,
		Counters:       r.Counters,
		System:         &r.System,
	}
	if r.Verification != nil {
		count := r.Verification.Errors
		run.Errors = &count
		run.Status = StatusFail
		if r.Verification.Passed {
			run.Status = StatusPass
		}
	}
	return l.append(run)
}

// LogFailure records a run that could not complete
func (l *ResultLogger) LogFailure(name string, cfg RunConfig, err error) error {
	return l.append(LoggedRun{
		Name:           name,
		Status:         StatusError,
		Log2Length:     cfg.Log2Length,
		Log2Iterations: cfg.Log2Iterations,
		Lanes:          cfg.Lanes,
		Error:          err.Error(),
	})
}

func (l *ResultLogger) append(run LoggedRun) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	run.Timestamp = time.Now()
	l.runs = append(l.runs, run)

	// Flush to disk immediately to avoid losing data on crash
	return l.flush()
}

// flush writes runs to disk
func (l *ResultLogger) flush() error {
	runs := l.runs
	if runs == nil {
		runs = []LoggedRun{}
	}
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	return os.WriteFile(l.sessionFile, data, 0644)
}

// LatestLogFile returns the most recently modified session file in dir
func LatestLogFile(dir string) (string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no log files found in %s", dir)
	}

	var latest string
	var latestTime time.Time
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestTime) {
			latest = file
			latestTime = info.ModTime()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no readable log files in %s", dir)
	}
	return latest, nil
}

// ReadLog loads the runs of a session file
func ReadLog(path string) ([]LoggedRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var runs []LoggedRun
	if err := json.Unmarshal(data, &runs); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return runs, nil
}

// Summarize writes a table of runs and their totals to w
func Summarize(w io.Writer, title string, runs []LoggedRun) {
	fmt.Fprintf(w, "\nGUPS Summary from %s:\n", title)
	fmt.Fprintln(w, strings.Repeat("=", 62))

	passed, failed, unverified, errored := 0, 0, 0, 0
	var best float64
	for _, r := range runs {
		label := fmt.Sprintf("%s (2^%d x 2^%d)", r.Name, r.Log2Length, r.Log2Iterations)
		switch r.Status {
		case StatusPass, StatusUnverified:
			if r.Status == StatusPass {
				passed++
			} else {
				unverified++
			}
			fmt.Fprintf(w, "✓ %-40s %10.4f GUPS", label, r.GUPS)
			if r.Errors != nil {
				fmt.Fprintf(w, " %8d errors", *r.Errors)
			}
			fmt.Fprintln(w)
		case StatusFail:
			failed++
			fmt.Fprintf(w, "✗ %-40s %10.4f GUPS %8d errors FAILED\n", label, r.GUPS, derefErrors(r.Errors))
		default:
			errored++
			fmt.Fprintf(w, "✗ %-40s ERROR: %s\n", label, r.Error)
		}
		if r.Status != StatusError && r.GUPS > best {
			best = r.GUPS
		}
	}

	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintf(w, "Total: %d | Passed: %d | Failed: %d | Unverified: %d | Errors: %d\n",
		len(runs), passed, failed, unverified, errored)
	if best > 0 {
		fmt.Fprintf(w, "Best: %.4f GUPS\n", best)
	}
}

func derefErrors(p *uint64) uint64 {
	if p == nil {
		return 0
	}
	return *p
}
