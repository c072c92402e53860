package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/madness/pkg/metrics"
)

// Defaults used when the matching option is not given.
const (
	DefaultTTL         = 10 * time.Minute
	DefaultLoadTimeout = time.Minute
	DefaultMaxEntries  = 1024
)

// ErrNoLoader is returned by Get when no load function is supplied.
var ErrNoLoader = errors.New("cache: nil loader")

// Loader produces the value for a key on a miss.
type Loader[V any] func(ctx context.Context) (V, error)

type entry[V any] struct {
	value    V
	loadedAt time.Time
}

// Cache is a thread-safe in-memory TTL cache. Concurrent misses for the
// same key share one load.
type Cache[V any] struct {
	name string
	cfg  settings

	mu      sync.RWMutex
	entries map[string]entry[V]
	gen     uint64

	group singleflight.Group

	hits   uint64
	misses uint64
}

// Stats is a point-in-time view of the cache.
type Stats struct {
	Name    string `json:"name"`
	Entries int    `json:"entries"`
	Fresh   int    `json:"fresh"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// New creates a cache labelled name in metrics.
func New[V any](name string, opts ...Option) *Cache[V] {
	cfg := settings{
		ttl:         DefaultTTL,
		loadTimeout: DefaultLoadTimeout,
		maxEntries:  DefaultMaxEntries,
		now:         time.Now,
		metrics:     true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Cache[V]{
		name:    name,
		cfg:     cfg,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the cached value for key, calling load on a miss or after
// expiry. Load errors are returned and never cached. A caller whose ctx ends
// stops waiting, but the shared load keeps running for the other waiters.
func (c *Cache[V]) Get(ctx context.Context, key string, load Loader[V]) (V, error) {
	if v, ok := c.lookup(key); ok {
		c.hit()
		return v, nil
	}
	var zero V
	if load == nil {
		return zero, ErrNoLoader
	}
	c.miss()

	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	ch := c.group.DoChan(key, func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.loadTimeout)
		defer cancel()
		v, err := load(lctx)
		if err != nil {
			return nil, err
		}
		c.store(key, v, gen)
		return v, nil
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

// Invalidate drops key.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.gen++
	n := len(c.entries)
	c.mu.Unlock()
	c.reportEntries(n)
}

// Purge drops every entry. Loads already in flight do not repopulate it.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]entry[V])
	c.gen++
	c.mu.Unlock()
	c.reportEntries(0)
}

// Stats returns cache statistics.
func (c *Cache[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	now := c.cfg.now()
	fresh := 0
	for _, e := range c.entries {
		if c.fresh(e, now) {
			fresh++
		}
	}
	return Stats{
		Name:    c.name,
		Entries: len(c.entries),
		Fresh:   fresh,
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

func (c *Cache[V]) lookup(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || !c.fresh(e, c.cfg.now()) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[V]) store(key string, v V, gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	now := c.cfg.now()
	c.sweep(now)
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.cfg.maxEntries {
		c.evictOldest()
	}
	c.entries[key] = entry[V]{value: v, loadedAt: now}
	n := len(c.entries)
	c.mu.Unlock()
	c.reportEntries(n)
}

// sweep drops expired entries. Requires c.mu held.
func (c *Cache[V]) sweep(now time.Time) {
	if c.cfg.ttl == 0 {
		return
	}
	for k, e := range c.entries {
		if !c.fresh(e, now) {
			delete(c.entries, k)
		}
	}
}

// evictOldest requires c.mu held.
func (c *Cache[V]) evictOldest() {
	var (
		oldest string
		at     time.Time
		found  bool
	)
	for k, e := range c.entries {
		if !found || e.loadedAt.Before(at) {
			oldest, at, found = k, e.loadedAt, true
		}
	}
	if found {
		delete(c.entries, oldest)
	}
}

func (c *Cache[V]) fresh(e entry[V], now time.Time) bool {
	return c.cfg.ttl == 0 || now.Sub(e.loadedAt) < c.cfg.ttl
}

func (c *Cache[V]) hit() {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	if c.cfg.metrics {
		metrics.RecordCacheHit(c.name)
	}
}

func (c *Cache[V]) miss() {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	if c.cfg.metrics {
		metrics.RecordCacheMiss(c.name)
	}
}

func (c *Cache[V]) reportEntries(n int) {
	if c.cfg.metrics {
		metrics.UpdateCacheEntries(c.name, n)
	}
}
