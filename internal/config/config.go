// Package config loads eavstore settings from a YAML file and the
// environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Output formats accepted by the CLI.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the settings shared by every eavstore command.
type Config struct {
	// Format selects command output: text or json.
	Format string `koanf:"format"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DB is the default sqlite path for export.
	DB string `koanf:"db"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Format == "" {
		cfg.Format = FormatText
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if cfg.DB == "" {
		cfg.DB = "eavstore.db"
	}
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("format must be %q or %q, got %q", FormatText, FormatJSON, c.Format)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns LogLevel as a slog.Level. Call Validate first; unknown
// levels map to warn.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log_level must be debug, info, warn or error, got %q", s)
	}
}
