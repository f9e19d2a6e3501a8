package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if CREWPLAN_CONFIG is set
//  3. env (prefix CREWPLAN_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("CREWPLAN_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: CREWPLAN_ADDR, CREWPLAN_MARKET_RATE, ...
	// Keys map to the flat koanf tags; nested weight keys use double
	// underscores: CREWPLAN_WEIGHTS__SKILL_MATCH -> weights.skill_match.
	envProvider := env.Provider("CREWPLAN_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "crewplan_")
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.RunStoreSize < 1:
		return fmt.Errorf("%w: run_store_size must be positive", ErrInvalidConfig)
	case cfg.ProductiveHoursPerWeek <= 0:
		return fmt.Errorf("%w: productive_hours_per_week must be positive", ErrInvalidConfig)
	case cfg.MarketRate <= 0:
		return fmt.Errorf("%w: market_rate must be positive", ErrInvalidConfig)
	case cfg.Weights.QualifyRatio < 0 || cfg.Weights.QualifyRatio > 1:
		return fmt.Errorf("%w: weights.qualify_ratio must be in [0,1]", ErrInvalidConfig)
	}
	return nil
}
