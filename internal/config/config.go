// Package config provides configuration management for the smartbus server.
//
// Config file locations (priority order):
//  1. $SMARTBUS_CONFIG
//  2. ./smartbus.yaml
//  3. ~/.config/smartbus/config.yaml
//  4. /etc/smartbus/config.yaml
//
// Environment variables (optionally from a .env file) override file values.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"smartbus/internal/palette"
)

// Defaults
const (
	DefaultAddr            = ":3000"
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultIdleTTL         = 30 * time.Minute
	DefaultJanitorInterval = time.Minute
)

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides are applied in both cases.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		if err := cfg.applyEnv(); err != nil {
			return nil, "", err
		}
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, path, err
	}
	cfg.applyDefaults()

	if _, err := cfg.BuildPalette(); err != nil {
		return nil, path, fmt.Errorf("invalid palette: %w", err)
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(DefaultShutdownTimeout)
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Sessions.IdleTTL == 0 {
		c.Sessions.IdleTTL = Duration(DefaultIdleTTL)
	}
	if c.Sessions.JanitorInterval == 0 {
		c.Sessions.JanitorInterval = Duration(DefaultJanitorInterval)
	}
	if len(c.Palette) == 0 {
		c.Palette = palette.DefaultSections()
	}
}

// BuildPalette validates the configured templates
func (c *Config) BuildPalette() (*palette.Palette, error) {
	return palette.New(c.Palette)
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	items := 0
	for _, sec := range c.Palette {
		items += len(sec.Items)
	}
	limit := "unlimited"
	if c.Sessions.MaxSessions > 0 {
		limit = fmt.Sprintf("%d", c.Sessions.MaxSessions)
	}
	return fmt.Sprintf("Addr: %s, Log: %s, Idle TTL: %s, Max sessions: %s, Palette: %d sections/%d items",
		c.Server.Addr, c.Log.Level, c.Sessions.IdleTTL.Duration(), limit, len(c.Palette), items)
}
