// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() for defaults and Load(ctx) for layered loading.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"github.com/okian/crewplan/internal/domain/scoring"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// RosterPath points at the YAML employee directory file. Empty starts
	// the service with an empty roster.
	RosterPath string `koanf:"roster_path"`

	// RunStoreSize bounds the in-memory store of recent allocation results.
	RunStoreSize int `koanf:"run_store_size"`

	// ProductiveHoursPerWeek is the assumed productive hours per person per
	// week used by the team sizer and the deadline-capacity checks.
	ProductiveHoursPerWeek float64 `koanf:"productive_hours_per_week"`

	// MarketRate is the reference hourly rate savings are measured against.
	MarketRate float64 `koanf:"market_rate"`

	// Weights is the scoring weight configuration.
	Weights scoring.Weights `koanf:"weights"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9090",
		RosterPath:             "",
		RunStoreSize:           128,
		ProductiveHoursPerWeek: 30,
		MarketRate:             150,
		Weights:                scoring.DefaultWeights(),
	}
}
