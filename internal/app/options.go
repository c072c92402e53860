package service

import (
	"time"

	"github.com/okian/madness/internal/domain/model"
	"github.com/okian/madness/internal/domain/weighting"
	"github.com/okian/madness/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAlgorithm sets the algorithm used when a request names none.
func WithAlgorithm(a model.Algorithm) Option {
	return func(s *Service) {
		if a != "" {
			s.algorithm = a
		}
	}
}

// WithRankingOptions sets the weighting used when a request carries none.
func WithRankingOptions(o weighting.Options) Option {
	return func(s *Service) {
		s.options = o.Clone()
	}
}

// WithCacheTTL sets how long feed tables, ratings and the bracket are kept.
// Zero keeps them until Refresh.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithBracketSource enables bracket simulation.
func WithBracketSource(b BracketSource) Option {
	return func(s *Service) {
		s.brackets = b
	}
}

// WithRunIDs overrides the simulation run ID generator.
func WithRunIDs(next func() string) Option {
	return func(s *Service) {
		if next != nil {
			s.newRunID = next
		}
	}
}

// WithClock overrides the time source used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.clock = now
		}
	}
}
