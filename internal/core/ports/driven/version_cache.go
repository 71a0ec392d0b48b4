package driven

import (
	"context"
	"time"
)

// VersionCache stores serialized derived results (Redis or in-process).
// Values are opaque to the cache; keys are namespaced per document so a
// whole document can be invalidated by prefix.
type VersionCache interface {
	// Get returns the cached value and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value for ttl
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeletePrefix removes every key starting with prefix and returns how many were removed
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// Ping checks if the cache backend is healthy
	Ping(ctx context.Context) error
}
