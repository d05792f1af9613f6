package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk CLI configuration. It is read from
// ~/.config/basm/config.toml when present; command-line flags override file
// values.
type Config struct {
	// Color selects colored output: auto, always or never.
	Color string `toml:"color"`

	// Indent is the number of spaces per indent level in printed source.
	Indent int `toml:"indent"`

	// LogLevel is the minimum level written to stderr.
	LogLevel string `toml:"log-level"`

	Listing ListingConfig `toml:"listing"`
}

// ListingConfig controls the dis --listing output.
type ListingConfig struct {
	// Style is table for the bordered grid or plain for one line per row.
	Style string `toml:"style"`
}

func defaultConfig() Config {
	return Config{
		Color:    "auto",
		Indent:   4,
		LogLevel: "warn",
		Listing:  ListingConfig{Style: "table"},
	}
}

// loadConfig reads the configuration at path, or the default location when
// path is empty. A missing file at the default location is not an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "basm", "config.toml")
		if _, err := os.Stat(path); err != nil {
			return cfg, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return cfg, nil
}

// indent returns the configured indentation string for printed source.
func (a *app) indent() string {
	if a.cfg.Indent <= 0 {
		return "    "
	}
	return strings.Repeat(" ", a.cfg.Indent)
}
