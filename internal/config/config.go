// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns the defaults; Load layers a YAML file and environment on top.
// - Failures are wrapped with ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"time"

	"github.com/okian/madness/internal/domain/weighting"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log records.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// GamesURL and TeamsURL locate the results feed CSV tables.
	GamesURL string `koanf:"games_url"`
	TeamsURL string `koanf:"teams_url"`

	// BracketURL points at an HTML bracket page; BracketFile at a JSON
	// bracket document. BracketFile wins when both are set.
	BracketURL  string `koanf:"bracket_url"`
	BracketFile string `koanf:"bracket_file"`

	// FeedTimeoutMS bounds a single feed request.
	FeedTimeoutMS int `koanf:"feed_timeout_ms"`

	// FeedRequestsPerMinute throttles outgoing feed requests.
	FeedRequestsPerMinute int `koanf:"feed_requests_per_minute"`

	// CacheTTLSeconds controls how long fetched tables and computed ratings live.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// Algorithm is the default rating method: colley or massey.
	Algorithm string `koanf:"algorithm"`

	// MaxRatingsLimit caps GET /ratings?limit.
	MaxRatingsLimit int `koanf:"max_ratings_limit"`

	// Ranking holds the default weighting options.
	Ranking weighting.Options `koanf:"ranking"`

	// Semifinals pairs regions for the cross-region rounds, e.g.
	// [["East","West"],["South","Midwest"]].
	Semifinals [][]string `koanf:"semifinals"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":9080",
		FeedTimeoutMS:         10_000,
		FeedRequestsPerMinute: 60,
		CacheTTLSeconds:       600,
		Algorithm:             "colley",
		MaxRatingsLimit:       400,
		Ranking:               weighting.DefaultOptions(),
	}
}

// FeedTimeout returns FeedTimeoutMS as a duration.
func (c *Config) FeedTimeout() time.Duration {
	return time.Duration(c.FeedTimeoutMS) * time.Millisecond
}

// CacheTTL returns CacheTTLSeconds as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// SemifinalPairs converts Semifinals into fixed pairs.
func (c *Config) SemifinalPairs() [][2]string {
	out := make([][2]string, 0, len(c.Semifinals))
	for _, p := range c.Semifinals {
		if len(p) == 2 {
			out = append(out, [2]string{p[0], p[1]})
		}
	}
	return out
}
