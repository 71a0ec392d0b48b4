package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestLock_OwnerIDsAreUnique(t *testing.T) {
	_, client := setupTestRedis(t)

	a, b := NewLock(client), NewLock(client)
	if a.OwnerID() == "" {
		t.Fatal("expected non-empty owner ID")
	}
	if a.OwnerID() == b.OwnerID() {
		t.Errorf("expected unique owner IDs, got %s twice", a.OwnerID())
	}
}

func TestLock_AcquireIsExclusive(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()
	first, second := NewLock(client), NewLock(client)

	ok, err := first.Acquire(ctx, "prewarm:1977:1160", 10*time.Second)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}

	tests := []struct {
		name string
		lock *Lock
	}{
		{"other owner", second},
		{"same owner is not reentrant", first},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := tt.lock.Acquire(ctx, "prewarm:1977:1160", 10*time.Second)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok {
				t.Error("expected acquire to fail while held")
			}
		})
	}

	ok, err = second.Acquire(ctx, "prewarm:1982:80", 10*time.Second)
	if err != nil || !ok {
		t.Errorf("different names are independent: ok=%v err=%v", ok, err)
	}
}

func TestLock_ReleaseOnlyOwnLock(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()
	owner, other := NewLock(client), NewLock(client)

	if ok, err := owner.Acquire(ctx, "prewarm:1977:1160", 10*time.Second); err != nil || !ok {
		t.Fatalf("acquire: ok=%v err=%v", ok, err)
	}

	if err := other.Release(ctx, "prewarm:1977:1160"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mr.Exists("statute:lock:prewarm:1977:1160") {
		t.Fatal("a foreign release must not drop the lock")
	}

	if err := owner.Release(ctx, "prewarm:1977:1160"); err != nil {
		t.Fatalf("unexpected error on release: %v", err)
	}
	if mr.Exists("statute:lock:prewarm:1977:1160") {
		t.Error("expected lock key to be gone")
	}

	if err := owner.Release(ctx, "never-held"); err != nil {
		t.Errorf("releasing an unheld lock should not error: %v", err)
	}
}

func TestLock_Expires(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()
	first, second := NewLock(client), NewLock(client)

	if ok, _ := first.Acquire(ctx, "prewarm:1977:1160", time.Minute); !ok {
		t.Fatal("expected to acquire lock")
	}
	mr.FastForward(2 * time.Minute)

	ok, err := second.Acquire(ctx, "prewarm:1977:1160", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected to acquire after the ttl elapsed")
	}
}

func TestLock_Ping(t *testing.T) {
	mr, client := setupTestRedis(t)
	lock := NewLock(client)

	if err := lock.Ping(context.Background()); err != nil {
		t.Errorf("unexpected ping error: %v", err)
	}

	mr.Close()
	if err := lock.Ping(context.Background()); err == nil {
		t.Error("expected ping to fail once the server is gone")
	}
}
