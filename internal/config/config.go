// Package config loads catlaunch settings from the environment and the
// user's config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// DBFileName is the database file created inside the data directory.
const DBFileName = "catlaunch.db"

// Config holds process-level settings. Launcher preferences such as the
// font live in the database, not here.
type Config struct {
	DataDir      string        `env:"CATLAUNCH_DATA_DIR"`
	DBPath       string        `env:"CATLAUNCH_DB"`
	MaxOpenConns int           `env:"CATLAUNCH_DB_MAX_CONNS" envDefault:"4"`
	Workers      int           `env:"CATLAUNCH_DB_WORKERS" envDefault:"4"`
	BusyTimeout  time.Duration `env:"CATLAUNCH_DB_BUSY_TIMEOUT" envDefault:"5s"`
	LogLevel     string        `env:"CATLAUNCH_LOG_LEVEL" envDefault:"info"`
	LogFormat    string        `env:"CATLAUNCH_LOG_FORMAT" envDefault:"text"`
}

// Load parses the environment, fills in path defaults, and validates.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, DBFileName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the store or logger cannot use.
func (c *Config) Validate() error {
	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("CATLAUNCH_DB_MAX_CONNS must be positive, got %d", c.MaxOpenConns)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("CATLAUNCH_DB_WORKERS must be positive, got %d", c.Workers)
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("CATLAUNCH_DB_BUSY_TIMEOUT must not be negative")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("CATLAUNCH_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("CATLAUNCH_LOG_LEVEL must be debug, info, warn, or error, got %q", c.LogLevel)
	}
	return nil
}

// DefaultDataDir returns $XDG_DATA_HOME/catlaunch, falling back to
// ~/.local/share/catlaunch.
func DefaultDataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "catlaunch"), nil
}

// Dir returns the catlaunch config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/catlaunch if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "catlaunch"), nil
}
