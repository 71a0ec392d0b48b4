package mocks

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MockVersionCache is an in-memory VersionCache for testing.
// Entries honor their TTL against Now, which tests may override.
type MockVersionCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry

	Now func() time.Time

	// Custom behavior hooks (optional)
	GetFn func(key string) ([]byte, bool, error)
	SetFn func(key string, value []byte, ttl time.Duration) error
}

type cacheEntry struct {
	value  []byte
	expiry time.Time
}

// NewMockVersionCache creates a new MockVersionCache
func NewMockVersionCache() *MockVersionCache {
	return &MockVersionCache{
		entries: make(map[string]cacheEntry),
		Now:     time.Now,
	}
}

func (m *MockVersionCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.GetFn != nil {
		return m.GetFn(key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok || !m.Now().Before(e.expiry) {
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

func (m *MockVersionCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFn != nil {
		return m.SetFn(key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = cacheEntry{value: append([]byte(nil), value...), expiry: m.Now().Add(ttl)}
	return nil
}

func (m *MockVersionCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

func (m *MockVersionCache) Ping(ctx context.Context) error {
	return nil
}

// Keys returns the keys currently stored (for test assertions)
func (m *MockVersionCache) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	return keys
}
