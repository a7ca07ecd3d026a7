package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func setupTestLock(t *testing.T) (*RedisLock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLockWithClient(client, "b1", time.Minute), mr
}

func TestRedisLockExcludesSecondRun(t *testing.T) {
	lock, mr := setupTestLock(t)
	ctx := context.Background()

	release, err := lock.Acquire(ctx)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	if !mr.Exists("blogbot:lock:b1") {
		t.Fatal("expected lock key to exist")
	}
	if ttl := mr.TTL("blogbot:lock:b1"); ttl != time.Minute {
		t.Fatalf("TTL = %v; want 1m", ttl)
	}

	if _, err := lock.Acquire(ctx); !errors.Is(err, ErrLocked) {
		t.Fatalf("second Acquire err = %v; want ErrLocked", err)
	}

	release()
	if mr.Exists("blogbot:lock:b1") {
		t.Fatal("expected lock key to be released")
	}

	release2, err := lock.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	release2()
}

func TestRedisLockExpires(t *testing.T) {
	lock, mr := setupTestLock(t)
	ctx := context.Background()

	release, err := lock.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	mr.FastForward(2 * time.Minute)
	release2, err := lock.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire after expiry: %v", err)
	}

	// the stale holder must not delete the new holder's key
	release()
	if !mr.Exists("blogbot:lock:b1") {
		t.Fatal("stale release removed the new lock")
	}
	release2()
}
