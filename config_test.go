package gups

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRunConfig(t *testing.T) {
	cfg := DefaultRunConfig()
	if cfg.Length() != 1<<27 {
		t.Errorf("Length() = %d, want 2^27", cfg.Length())
	}
	if cfg.Updates() != 4<<27 {
		t.Errorf("Updates() = %d, want 4*2^27", cfg.Updates())
	}
	if cfg.Iterations() != 1 {
		t.Errorf("Iterations() = %d, want 1", cfg.Iterations())
	}
	if cfg.Verify {
		t.Error("verification enabled by default")
	}
	if cfg.Lanes != 128 {
		t.Errorf("Lanes = %d, want 128", cfg.Lanes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestRunConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*RunConfig)
		wantErr bool
	}{
		{"defaults", func(c *RunConfig) {}, false},
		{"single cell", func(c *RunConfig) { c.Log2Length = 0; c.Lanes = 4 }, false},
		{"single cell too many lanes", func(c *RunConfig) { c.Log2Length = 0 }, true},
		{"length too large", func(c *RunConfig) { c.Log2Length = MaxLog2Length + 1 }, true},
		{"iterations too large", func(c *RunConfig) { c.Log2Iterations = MaxLog2Iterations + 1 }, true},
		{"zero lanes", func(c *RunConfig) { c.Lanes = 0 }, true},
		{"uneven lanes", func(c *RunConfig) { c.Lanes = 3 }, true},
		{"negative workers", func(c *RunConfig) { c.Workers = -2 }, true},
		{"zero rounds per join", func(c *RunConfig) { c.RoundsPerJoin = 0 }, true},
		{"verify several passes", func(c *RunConfig) { c.Verify = true; c.Log2Iterations = 2 }, false},
		{"verify one pass", func(c *RunConfig) { c.Verify = true }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRunConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsInvalidArgError(err) {
				t.Errorf("Validate() error type = %v, want invalid argument", err)
			}
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gups.ini")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
; benchmark settings
[gups]
log2_length = 20
Verify = true
workers = 4
rounds_per_join = 16
huge_pages = true
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := DefaultRunConfig()
	want.Log2Length = 20
	want.Verify = true
	want.Workers = 4
	want.RoundsPerJoin = 16
	want.HugePages = true
	if cfg != want {
		t.Errorf("LoadConfig() = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing section", "[other]\nlog2_length = 10\n"},
		{"non-numeric length", "[gups]\nlog2_length = big\n"},
		{"invalid result", "[gups]\nlanes = 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if !IsInvalidArgError(err) {
				t.Errorf("LoadConfig() error = %v, want invalid argument", err)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.ini")); err == nil {
		t.Error("LoadConfig of a missing file succeeded")
	}
}
