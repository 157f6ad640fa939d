// Package cache memoizes externally-fetched data (market snapshots, coin
// lists) through the persistent store under a reserved key prefix. Freshness
// is checked twice: the store's own envelope TTL, and a per-read maxAge
// window, because callers may want a shorter window than the value was
// stored with.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kundanmehta01/CryptoHub/internal/store"
	"github.com/kundanmehta01/CryptoHub/pkg/logger"
	"github.com/kundanmehta01/CryptoHub/pkg/metrics"
)

// DefaultMaxAge is the freshness window applied when a read passes none.
const DefaultMaxAge = 300000 * time.Millisecond

// ErrMiss is returned when the key is absent or no longer fresh.
var ErrMiss = errors.New("cache: miss")

type entry struct {
	Data     json.RawMessage `json:"data"`
	CachedAt int64           `json:"cachedAt"`
}

// Cache is the TTL-memoization facade over the persistent store.
type Cache struct {
	store  *store.Store
	now    func() time.Time
	maxAge time.Duration
	log    *logger.Logger
	rec    metrics.Recorder
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger attaches a logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(rec metrics.Recorder) Option {
	return func(c *Cache) { c.rec = rec }
}

// WithMaxAge overrides the freshness window used when a read passes none.
func WithMaxAge(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.maxAge = d
		}
	}
}

// New creates a Cache over st, sharing its clock.
func New(st *store.Store, opts ...Option) *Cache {
	c := &Cache{
		store:  st,
		now:    st.Now,
		maxAge: DefaultMaxAge,
		log:    logger.Nop(),
		rec:    metrics.Noop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get reads key into dest if the entry is younger than maxAge (and the
// store's own TTL has not passed). A stale entry is evicted before ErrMiss
// is returned, so repeated stale reads cost one purge at most.
func (c *Cache) Get(key string, maxAge time.Duration, dest any) error {
	if maxAge <= 0 {
		maxAge = c.maxAge
	}

	full := store.CachePrefix + key
	var e entry
	if err := c.store.Get(full, &e); err != nil {
		c.rec.CacheRead(key, false)
		return ErrMiss
	}

	age := c.now().UnixMilli() - e.CachedAt
	if age > maxAge.Milliseconds() {
		_ = c.store.Remove(full)
		c.rec.CacheRead(key, false)
		c.log.Debug("cache entry stale", logger.String("key", key),
			logger.Int("age_ms", int(age)))
		return ErrMiss
	}

	if err := json.Unmarshal(e.Data, dest); err != nil {
		_ = c.store.Remove(full)
		c.rec.CacheRead(key, false)
		return ErrMiss
	}

	c.rec.CacheRead(key, true)
	return nil
}

// Set stores data under key with the given store-level ttl.
func (c *Cache) Set(key string, data any, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("cache: marshal %q: %w", key, err)
	}
	e := entry{Data: raw, CachedAt: c.now().UnixMilli()}
	return c.store.Set(store.CachePrefix+key, e, ttl)
}

// Invalidate drops a single entry.
func (c *Cache) Invalidate(key string) error {
	return c.store.Remove(store.CachePrefix + key)
}

// InvalidatePattern drops every cache entry whose key contains pattern.
// It returns the number removed.
func (c *Cache) InvalidatePattern(pattern string) int {
	removed := 0
	for _, k := range c.store.Keys() {
		if !strings.HasPrefix(k, store.CachePrefix) {
			continue
		}
		if strings.Contains(strings.TrimPrefix(k, store.CachePrefix), pattern) {
			if err := c.store.Remove(k); err == nil {
				removed++
			}
		}
	}
	return removed
}

// ClearAll drops every cache entry, leaving direct-use keys alone.
func (c *Cache) ClearAll() int {
	removed := 0
	for _, k := range c.store.Keys() {
		if strings.HasPrefix(k, store.CachePrefix) {
			if err := c.store.Remove(k); err == nil {
				removed++
			}
		}
	}
	return removed
}
