package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/statute-core/internal/core/ports/driven"
)

var _ driven.DistributedLock = (*MockDistributedLock)(nil)

// MockDistributedLock is an in-memory DistributedLock that records every
// acquisition and release by lock name.
type MockDistributedLock struct {
	mu       sync.Mutex
	expiries map[string]time.Time
	acquired []string
	released []string

	// Now is the clock used for expiry. Defaults to time.Now.
	Now func() time.Time

	// ErrFn, when set, fails the named method ("Acquire", "Release", "Ping")
	ErrFn func(method string) error
}

// NewMockDistributedLock creates a new MockDistributedLock
func NewMockDistributedLock() *MockDistributedLock {
	return &MockDistributedLock{expiries: make(map[string]time.Time)}
}

func (m *MockDistributedLock) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *MockDistributedLock) fail(method string) error {
	if m.ErrFn != nil {
		return m.ErrFn(method)
	}
	return nil
}

func (m *MockDistributedLock) held(name string) bool {
	exp, ok := m.expiries[name]
	return ok && m.now().Before(exp)
}

func (m *MockDistributedLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	if err := m.fail("Acquire"); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.held(name) {
		return false, nil
	}
	m.expiries[name] = m.now().Add(ttl)
	m.acquired = append(m.acquired, name)
	return true, nil
}

func (m *MockDistributedLock) Release(ctx context.Context, name string) error {
	if err := m.fail("Release"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.expiries, name)
	m.released = append(m.released, name)
	return nil
}

func (m *MockDistributedLock) Ping(ctx context.Context) error {
	return m.fail("Ping")
}

// IsHeld reports whether name is locked and unexpired
func (m *MockDistributedLock) IsHeld(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held(name)
}

// HoldElsewhere locks name as if another instance had acquired it
func (m *MockDistributedLock) HoldElsewhere(name string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expiries[name] = m.now().Add(ttl)
}

// Acquired returns the names of successful acquisitions, in order
func (m *MockDistributedLock) Acquired() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.acquired...)
}

// Released returns the names passed to Release, in order
func (m *MockDistributedLock) Released() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.released...)
}
