// Package memory provides in-process adapters for single-instance deployments
// and tests.
package memory

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/statute-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VersionCache = (*VersionCache)(nil)

// VersionCacheConfig bounds the in-process cache
type VersionCacheConfig struct {
	// MaxEntries is the LRU capacity; the least recently used entry is evicted beyond it
	MaxEntries int

	// Now is the clock used for expiry. Defaults to time.Now.
	Now func() time.Time
}

// DefaultVersionCacheConfig returns sensible defaults
func DefaultVersionCacheConfig() VersionCacheConfig {
	return VersionCacheConfig{MaxEntries: 500}
}

// VersionCache is a bounded LRU cache with per-entry TTLs.
// It is safe for concurrent use.
type VersionCache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List // front is most recently used
	max     int
	now     func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

type entry struct {
	key     string
	value   []byte
	expires time.Time
}

// CacheStats is a snapshot of cache counters
type CacheStats struct {
	Entries   int   `json:"entries"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// NewVersionCache creates a new VersionCache
func NewVersionCache(cfg VersionCacheConfig) *VersionCache {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultVersionCacheConfig().MaxEntries
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &VersionCache{
		entries: make(map[string]*list.Element),
		lru:     list.New(),
		max:     cfg.MaxEntries,
		now:     cfg.Now,
	}
}

func (c *VersionCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return nil, false, nil
	}
	e := el.Value.(*entry)
	if !c.now().Before(e.expires) {
		c.remove(el)
		c.misses.Add(1)
		return nil, false, nil
	}

	c.lru.MoveToFront(el)
	c.hits.Add(1)
	return e.value, true, nil
}

func (c *VersionCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.now().Add(ttl)
	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		e.value, e.expires = value, expires
		c.lru.MoveToFront(el)
		return nil
	}

	c.entries[key] = c.lru.PushFront(&entry{key: key, value: value, expires: expires})
	for c.lru.Len() > c.max {
		c.remove(c.lru.Back())
		c.evictions.Add(1)
	}
	return nil
}

func (c *VersionCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key, el := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.remove(el)
			n++
		}
	}
	return n, nil
}

func (c *VersionCache) Ping(ctx context.Context) error {
	return nil
}

// Stats returns a snapshot of the cache counters
func (c *VersionCache) Stats() CacheStats {
	c.mu.Lock()
	n := c.lru.Len()
	c.mu.Unlock()
	return CacheStats{
		Entries:   n,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// remove must be called with mu held
func (c *VersionCache) remove(el *list.Element) {
	c.lru.Remove(el)
	delete(c.entries, el.Value.(*entry).key)
}
