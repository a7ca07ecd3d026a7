package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blogbot/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLocked is returned when another run of the same blog holds the lock
var ErrLocked = errors.New("another run holds the publish lock")

// Locker serializes runs for one blog. Release must be safe to call once.
type Locker interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// releaseScript deletes the key only if it still holds our token, so an expired
// lock taken over by another run is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock is a SET NX lock with a TTL so a crashed run cannot block the next one forever
type RedisLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisLock connects to redis and verifies connectivity
func NewRedisLock(cfg config.LockConfig, blogID string) (*RedisLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return NewRedisLockWithClient(client, blogID, cfg.TTL), nil
}

// NewRedisLockWithClient wraps an existing client; a non-positive ttl means config.DefaultLockTTL
func NewRedisLockWithClient(client *redis.Client, blogID string, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = config.DefaultLockTTL
	}
	return &RedisLock{
		client: client,
		key:    "blogbot:lock:" + blogID,
		ttl:    ttl,
	}
}

// Key returns the redis key guarding this blog
func (l *RedisLock) Key() string { return l.key }

// Acquire takes the lock or returns ErrLocked if another run holds it
func (l *RedisLock) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", l.key, err)
	}
	if !ok {
		return nil, ErrLocked
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{l.key}, token).Err()
	}
	return release, nil
}

// Close closes the underlying Redis client
func (l *RedisLock) Close() error {
	return l.client.Close()
}

type noopLock struct{}

func (noopLock) Acquire(context.Context) (func(), error) { return func() {}, nil }
