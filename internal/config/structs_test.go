package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, 64, cfg.Search.Tier4Trials)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"debug level", func(c *Config) { c.LogLevel = "debug" }, true},
		{"mixed-case level", func(c *Config) { c.LogLevel = "WARN" }, true},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, false},
		{"json format", func(c *Config) { c.Output.Format = "json" }, true},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, false},
		{"negative workers", func(c *Config) { c.Search.MaxWorkers = -1 }, false},
		{"negative trials", func(c *Config) { c.Search.Tier4Trials = -5 }, false},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, false},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, false},
		{"zero upload limit", func(c *Config) { c.Server.MaxUploadMB = 0 }, false},
		{"zero timeout", func(c *Config) { c.Server.TimeoutSec = 0 }, false},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
