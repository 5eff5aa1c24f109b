// Package config provides configuration loading and validation for volley load tests.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/volleyload/volley/internal/constants"
	verrors "github.com/volleyload/volley/internal/errors"
)

// Config represents a fully resolved load test configuration. It is
// built once at startup and shared read-only afterwards.
type Config struct {
	DurationSeconds int    `mapstructure:"duration"`
	Concurrency     int    `mapstructure:"concurrency"`
	QPS             int    `mapstructure:"qps"`
	URL             string `mapstructure:"url"`

	Timeout    time.Duration `mapstructure:"timeout"`
	Insecure   bool          `mapstructure:"insecure"`
	Headless   bool          `mapstructure:"headless"`
	LogFile    string        `mapstructure:"log_file"`
	OutputDir  string        `mapstructure:"output_dir"`
	ScriptPath string        `mapstructure:"script"`
	Hooks      Hooks         `mapstructure:"hooks"`
}

// Hooks configuration.
type Hooks struct {
	Pre  string `mapstructure:"pre"`
	Post string `mapstructure:"post"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		DurationSeconds: constants.DefaultDurationSeconds,
		Concurrency:     constants.DefaultConcurrency,
		QPS:             constants.DefaultQPS,
	}
}

// Duration returns the configured test length as a time.Duration.
func (c *Config) Duration() time.Duration {
	return time.Duration(c.DurationSeconds) * time.Second
}

// LoadFile merges values from a YAML config file into c. flagSet
// reports whether a flag was set explicitly on the command line;
// flags always win over the file.
func LoadFile(path string, c *Config, flagSet func(name string) bool) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return verrors.WithConfigNotFoundDetails(path)
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var file Config
	if err := v.Unmarshal(&file); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	merge := func(name string, apply func()) {
		if !flagSet(name) {
			apply()
		}
	}

	if file.DurationSeconds > 0 {
		merge("duration", func() { c.DurationSeconds = file.DurationSeconds })
	}
	if file.Concurrency > 0 {
		merge("concurrency", func() { c.Concurrency = file.Concurrency })
	}
	if file.QPS > 0 {
		merge("qps", func() { c.QPS = file.QPS })
	}
	if file.URL != "" {
		merge("url", func() { c.URL = file.URL })
	}
	if file.Timeout > 0 {
		merge("timeout", func() { c.Timeout = file.Timeout })
	}
	if file.LogFile != "" {
		merge("log-file", func() { c.LogFile = file.LogFile })
	}
	if file.OutputDir != "" {
		merge("output-dir", func() { c.OutputDir = file.OutputDir })
	}
	if file.ScriptPath != "" {
		merge("script", func() { c.ScriptPath = file.ScriptPath })
	}
	c.Hooks = file.Hooks

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DurationSeconds < 1 {
		return verrors.ErrInvalidDuration
	}
	if c.Concurrency < 1 {
		return verrors.ErrInvalidConcurrency
	}
	if c.QPS < 1 {
		return verrors.ErrInvalidQPS
	}

	// A script supplies its own targets; otherwise a URL is required.
	if c.ScriptPath != "" {
		return nil
	}
	if c.URL == "" {
		return verrors.ErrMissingURL
	}
	if u, err := url.Parse(c.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return verrors.WithInvalidURLDetails(c.URL, err)
	}

	return nil
}
