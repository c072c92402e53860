// Package cache provides an explicit, refreshable TTL cache for fetched
// tables and computed ratings.
package cache

import "time"

// Option applies a configuration option to a Cache.
type Option func(*settings)

type settings struct {
	ttl         time.Duration
	loadTimeout time.Duration
	maxEntries  int
	now         func() time.Time
	metrics     bool
}

// WithTTL sets how long a loaded value stays fresh. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) {
		if ttl >= 0 {
			s.ttl = ttl
		}
	}
}

// WithLoadTimeout bounds a shared load. The load outlives any single caller,
// so it runs under this timeout instead of the caller's deadline.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.loadTimeout = d
		}
	}
}

// WithMaxEntries caps the number of entries. When full, the oldest entry is
// evicted to make room.
func WithMaxEntries(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithoutMetrics stops the cache from reporting to the global metrics manager.
func WithoutMetrics() Option {
	return func(s *settings) {
		s.metrics = false
	}
}
