package gups

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestResultLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, err := NewResultLogger(dir, "session")
	if err != nil {
		t.Fatalf("NewResultLogger: %v", err)
	}

	// The session file exists before any run is logged.
	runs, err := ReadLog(logger.Path())
	if err != nil {
		t.Fatalf("ReadLog of empty session: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("empty session has %d runs", len(runs))
	}

	cfg := smallConfig()
	passed := &Result{Config: cfg, Workers: 1, Verification: &Verification{Errors: 0, Tolerance: 40.96, Passed: true}}
	passed.setRate(time.Millisecond)
	failed := &Result{Config: cfg, Workers: 1, Verification: &Verification{Errors: 99, Tolerance: 40.96}}
	failed.setRate(time.Millisecond)
	unverified := &Result{Config: cfg, Workers: 1}
	unverified.setRate(time.Millisecond)

	for name, r := range map[string]*Result{"passed": passed, "failed": failed, "unverified": unverified} {
		if err := logger.Log(name, r); err != nil {
			t.Fatalf("Log(%s): %v", name, err)
		}
	}
	if err := logger.LogFailure("broken", cfg, errors.New("no memory")); err != nil {
		t.Fatal(err)
	}

	runs, err = ReadLog(logger.Path())
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 4 {
		t.Fatalf("logged %d runs, want 4", len(runs))
	}
	status := map[string]string{}
	for _, r := range runs {
		status[r.Name] = r.Status
		if r.Timestamp.IsZero() {
			t.Errorf("%s: missing timestamp", r.Name)
		}
	}
	want := map[string]string{
		"passed":     StatusPass,
		"failed":     StatusFail,
		"unverified": StatusUnverified,
		"broken":     StatusError,
	}
	for name, s := range want {
		if status[name] != s {
			t.Errorf("%s: status %q, want %q", name, status[name], s)
		}
	}

	latest, err := LatestLogFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	if latest != logger.Path() {
		t.Errorf("LatestLogFile = %s, want %s", latest, logger.Path())
	}

	var buf bytes.Buffer
	Summarize(&buf, filepath.Base(latest), runs)
	out := buf.String()
	for _, s := range []string{
		"Total: 4 | Passed: 1 | Failed: 1 | Unverified: 1 | Errors: 1",
		"99 errors FAILED",
		"ERROR: no memory",
		"Best: ",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("summary missing %q:\n%s", s, out)
		}
	}
}

func TestLatestLogFileEmpty(t *testing.T) {
	if _, err := LatestLogFile(t.TempDir()); err == nil {
		t.Error("LatestLogFile on an empty directory succeeded")
	}
}

func TestReadLogInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadLog(path); err == nil {
		t.Error("ReadLog of invalid JSON succeeded")
	}
}

func TestResultLoggerWriteError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, err := NewResultLogger(dir, "session")
	if err != nil {
		t.Fatalf("NewResultLogger: %v", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if err := logger.LogFailure("lost", DefaultRunConfig(), errors.New("boom")); err == nil {
		t.Error("LogFailure into a removed directory returned nil")
	}
}
