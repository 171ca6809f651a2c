package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LynnColeArt/gups"
)

func writeLog(t *testing.T, dir string) string {
	t.Helper()
	logger, err := gups.NewResultLogger(dir, "gups")
	if err != nil {
		t.Fatal(err)
	}
	res := &gups.Result{
		Config:       gups.DefaultRunConfig(),
		GUPS:         0.25,
		Verification: &gups.Verification{Errors: 2, Tolerance: 10.24, Passed: true},
	}
	if err := logger.Log("gups_27_0", res); err != nil {
		t.Fatal(err)
	}
	if err := logger.LogFailure("gups_40_0", gups.DefaultRunConfig(), errors.New("out of memory")); err != nil {
		t.Fatal(err)
	}
	return logger.Path()
}

func TestRunSummary(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir)
	garbage := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(garbage, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"latest in dir", []string{"-dir", dir}, 0},
		{"explicit file", []string{"-file", path}, 0},
		{"empty dir", []string{"-dir", t.TempDir()}, 1},
		{"bad log", []string{"-file", garbage}, 1},
		{"unknown flag", []string{"-nope"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if got := run(tt.args, &out); got != tt.want {
				t.Fatalf("run(%q) = %d, want %d", tt.args, got, tt.want)
			}
			if tt.want != 0 {
				return
			}
			got := out.String()
			for _, s := range []string{filepath.Base(path), "gups_27_0", "ERROR: out of memory",
				"Total: 2 | Passed: 1 | Failed: 0 | Unverified: 0 | Errors: 1"} {
				if !strings.Contains(got, s) {
					t.Errorf("summary missing %q:\n%s", s, got)
				}
			}
		})
	}
}
