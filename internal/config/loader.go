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

	"github.com/okian/madness/internal/domain/model"
)

const (
	envPrefix = "MADNESS_"
	envFile   = "MADNESS_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MADNESS_CONFIG is set
//  3. env (prefix MADNESS_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// MADNESS_FEED_TIMEOUT_MS -> feed_timeout_ms,
	// MADNESS_RANKING_WEIGHT_HOME_WIN -> ranking.weight_home_win.
	envProvider := env.Provider(envPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	cfg.Ranking = base.Ranking.Clone()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if rest, ok := strings.CutPrefix(s, "ranking_"); ok {
		return "ranking." + rest
	}
	return s
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if _, err := model.ParseAlgorithm(c.Algorithm); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Ranking.Validate(); err != nil {
		return fmt.Errorf("%w: ranking: %v", ErrInvalidConfig, err)
	}
	if c.FeedTimeoutMS <= 0 {
		return fmt.Errorf("%w: feed_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.FeedRequestsPerMinute <= 0 {
		return fmt.Errorf("%w: feed_requests_per_minute must be positive", ErrInvalidConfig)
	}
	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("%w: cache_ttl_seconds must not be negative", ErrInvalidConfig)
	}
	if c.MaxRatingsLimit <= 0 {
		return fmt.Errorf("%w: max_ratings_limit must be positive", ErrInvalidConfig)
	}
	for i, p := range c.Semifinals {
		if len(p) != 2 {
			return fmt.Errorf("%w: semifinals[%d] must name two regions", ErrInvalidConfig, i)
		}
	}
	return nil
}
