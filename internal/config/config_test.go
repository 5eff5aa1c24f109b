package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	verrors "github.com/volleyload/volley/internal/errors"
)

func validConfig() *Config {
	c := New()
	c.URL = "http://localhost:8080/health"
	return c
}

func TestNewDefaults(t *testing.T) {
	c := New()
	if c.DurationSeconds != 25 || c.Concurrency != 10 || c.QPS != 10 {
		t.Errorf("defaults = %d/%d/%d, want 25/10/10", c.DurationSeconds, c.Concurrency, c.QPS)
	}
	if c.Duration() != 25*time.Second {
		t.Errorf("Duration() = %v, want 25s", c.Duration())
	}
}

func TestValidateOK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"missing url", func(c *Config) { c.URL = "" }, verrors.ErrMissingURL},
		{"zero duration", func(c *Config) { c.DurationSeconds = 0 }, verrors.ErrInvalidDuration},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, verrors.ErrInvalidConcurrency},
		{"zero qps", func(c *Config) { c.QPS = 0 }, verrors.ErrInvalidQPS},
		{"bad url", func(c *Config) { c.URL = "not a url" }, verrors.ErrInvalidURL},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			if err := c.Validate(); !errors.Is(err, tc.wantErr) {
				t.Errorf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateScriptSkipsURL(t *testing.T) {
	c := New()
	c.ScriptPath = "attack.star"
	if err := c.Validate(); err != nil {
		t.Errorf("script config should not require a url: %v", err)
	}
}

func TestLoadFileMergesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "volley.yaml")
	yaml := `
duration: 60
concurrency: 32
qps: 100
url: http://staging.example.com/ping
hooks:
  pre: ./pre.sh
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New()
	if err := LoadFile(path, c, func(string) bool { return false }); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if c.DurationSeconds != 60 || c.Concurrency != 32 || c.QPS != 100 {
		t.Errorf("merged = %d/%d/%d, want 60/32/100", c.DurationSeconds, c.Concurrency, c.QPS)
	}
	if c.URL != "http://staging.example.com/ping" {
		t.Errorf("URL = %q", c.URL)
	}
	if c.Hooks.Pre != "./pre.sh" {
		t.Errorf("Hooks.Pre = %q", c.Hooks.Pre)
	}
}

func TestLoadFileFlagsWin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "volley.yaml")
	if err := os.WriteFile(path, []byte("qps: 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New()
	c.QPS = 77 // set by flag
	flagSet := func(name string) bool { return name == "qps" }

	if err := LoadFile(path, c, flagSet); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.QPS != 77 {
		t.Errorf("QPS = %d, flag value should win over file", c.QPS)
	}
}

func TestLoadFileNotFound(t *testing.T) {
	c := New()
	err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), c, func(string) bool { return false })
	if !errors.Is(err, verrors.ErrConfigNotFound) {
		t.Errorf("got %v, want ErrConfigNotFound", err)
	}
}
