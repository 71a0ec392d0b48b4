package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/statute-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VersionCache = (*VersionCache)(nil)

// VersionCacheConfig configures the Redis version cache
type VersionCacheConfig struct {
	// Namespace is prepended to every key, e.g. "prod:"
	Namespace string

	// ScanCount is the SCAN batch hint used by DeletePrefix
	ScanCount int64
}

// DefaultVersionCacheConfig returns sensible defaults
func DefaultVersionCacheConfig() VersionCacheConfig {
	return VersionCacheConfig{ScanCount: 200}
}

// VersionCache implements driven.VersionCache on Redis strings with TTLs.
// It is shared by every instance behind the same Redis.
type VersionCache struct {
	client redis.UniversalClient
	cfg    VersionCacheConfig
}

// NewVersionCache creates a new VersionCache
func NewVersionCache(client redis.UniversalClient, cfg VersionCacheConfig) *VersionCache {
	if cfg.ScanCount <= 0 {
		cfg.ScanCount = DefaultVersionCacheConfig().ScanCount
	}
	return &VersionCache{client: client, cfg: cfg}
}

func (c *VersionCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.cfg.Namespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return data, true, nil
}

func (c *VersionCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.cfg.Namespace+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// DeletePrefix removes every key starting with prefix. Keys are found with
// SCAN and deleted per batch, so the server is never blocked on KEYS.
func (c *VersionCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	match := escapeGlob(c.cfg.Namespace+prefix) + "*"
	iter := c.client.Scan(ctx, 0, match, c.cfg.ScanCount).Iterator()

	deleted := 0
	batch := make([]string, 0, c.cfg.ScanCount)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.client.Del(ctx, batch...).Result()
		if err != nil {
			return err
		}
		deleted += int(n)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if int64(len(batch)) >= c.cfg.ScanCount {
			if err := flush(); err != nil {
				return deleted, fmt.Errorf("cache delete %s*: %w", prefix, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("cache scan %s*: %w", prefix, err)
	}
	if err := flush(); err != nil {
		return deleted, fmt.Errorf("cache delete %s*: %w", prefix, err)
	}
	return deleted, nil
}

func (c *VersionCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// escapeGlob quotes the characters SCAN MATCH treats as patterns.
func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
