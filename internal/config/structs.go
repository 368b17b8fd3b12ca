// Package config defines the application configuration and its loader.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration structure.
type Config struct {
	// LogLevel controls slog verbosity: debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// Verbose forces debug-level logging regardless of LogLevel.
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`

	Search SearchConfig `mapstructure:"search" yaml:"search"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
}

// SearchConfig tunes the tiered decode search.
type SearchConfig struct {
	// MaxWorkers bounds per-tier parallelism; 0 means all CPUs.
	MaxWorkers int `mapstructure:"max_workers" yaml:"max_workers"`

	// Tier4Trials is the random-exploration trial count; 0 means the
	// built-in default.
	Tier4Trials int `mapstructure:"tier4_trials" yaml:"tier4_trials"`
}

// OutputConfig controls CLI output rendering.
type OutputConfig struct {
	// Format is text or json.
	Format string `mapstructure:"format" yaml:"format"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host"`
	Port            int    `mapstructure:"port" yaml:"port"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// DefaultConfig returns the configuration used when no file, environment
// variable, or flag overrides a value.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Verbose:  false,
		Search: SearchConfig{
			MaxWorkers:  0,
			Tier4Trials: 64,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			MaxUploadMB:     16,
			TimeoutSec:      60,
			ShutdownTimeout: 10,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (expected debug, info, warn, or error)", c.LogLevel)
	}

	if c.Search.MaxWorkers < 0 {
		return fmt.Errorf("search.max_workers must be >= 0, got %d", c.Search.MaxWorkers)
	}
	if c.Search.Tier4Trials < 0 {
		return fmt.Errorf("search.tier4_trials must be >= 0, got %d", c.Search.Tier4Trials)
	}

	switch strings.ToLower(c.Output.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid output.format %q (expected text or json)", c.Output.Format)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be > 0, got %d", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("server.timeout_sec must be > 0, got %d", c.Server.TimeoutSec)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0, got %d", c.Server.ShutdownTimeout)
	}

	return nil
}
