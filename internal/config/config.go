// Package config loads chatstats configuration from TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all chatstats configuration.
type Config struct {
	// ConfidenceThreshold is the minimum top-candidate score for -n to pick
	// a conversation without asking.
	ConfidenceThreshold float64 `toml:"confidence_threshold"`

	// ShortlistLimit caps how many candidates are shown for disambiguation.
	ShortlistLimit int `toml:"shortlist_limit"`

	// TimeZone is the IANA zone used to derive calendar buckets. Bucketing
	// must be deterministic, so the host zone is never used implicitly.
	TimeZone string `toml:"time_zone"`

	// Bucketing is the default aggregation period: none, monthly, or yearly.
	Bucketing string `toml:"bucketing"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.72,
		ShortlistLimit:      5,
		TimeZone:            "UTC",
		Bucketing:           "none",
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	return cfg, nil
}

// Location resolves the configured time zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("resolve time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "chatstats", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "chatstats", "config.toml"))
	}

	return paths
}
