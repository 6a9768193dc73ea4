package config

import (
	"time"

	"smartbus/internal/palette"
)

// Config is the on-disk server configuration
type Config struct {
	Version  int               `yaml:"version"`
	Server   ServerConfig      `yaml:"server"`
	Log      LogConfig         `yaml:"log"`
	Sessions SessionConfig     `yaml:"sessions"`
	Palette  []palette.Section `yaml:"palette,omitempty"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
	CORSOrigin      string   `yaml:"cors_origin,omitempty"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// SessionConfig bounds the lifetime and number of canvases held in memory
type SessionConfig struct {
	IdleTTL         Duration `yaml:"idle_ttl"`
	JanitorInterval Duration `yaml:"janitor_interval"`
	MaxSessions     int      `yaml:"max_sessions"` // 0 = unlimited
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
