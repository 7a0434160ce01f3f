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
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if PUCKRANK_CONFIG is set
//  3. env (prefix PUCKRANK_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("PUCKRANK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: PUCKRANK_ADDR, PUCKRANK_RECENT_DAYS, ...
	// Map env keys like PUCKRANK_RECENT_DAYS -> recent_days (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("PUCKRANK_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "puckrank_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.StatsBaseURL == "" {
		return fmt.Errorf("%w: stats_base_url must not be empty", ErrInvalidConfig)
	}
	if len(c.Season) != 8 {
		return fmt.Errorf("%w: season must be an 8-digit span like 20252026", ErrInvalidConfig)
	}
	if c.RecentDays <= 0 {
		return fmt.Errorf("%w: recent_days must be positive", ErrInvalidConfig)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: max_retries must not be negative", ErrInvalidConfig)
	}
	if c.MaxRankingsLimit <= 0 {
		return fmt.Errorf("%w: max_rankings_limit must be positive", ErrInvalidConfig)
	}
	if c.ImprovedRecentWeight <= 0 || c.ImprovedSeasonWeight <= 0 || c.ImprovedSpecialWeight <= 0 {
		return fmt.Errorf("%w: improved blend weights must be positive", ErrInvalidConfig)
	}
	if c.StreakMinLength <= 0 {
		return fmt.Errorf("%w: streak_min_length must be positive", ErrInvalidConfig)
	}
	return nil
}
