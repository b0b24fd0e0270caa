// Package idempotency provides a dependency-injected, TTL-bounded
// replacement for a process-wide in-memory dedup set: "apply" requests
// are deduplicated by a client-supplied key, with a documented
// eviction policy rather than unbounded growth.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a remembered idempotency key is honored.
// After it elapses, a replayed apply is treated as a fresh request.
const DefaultTTL = 24 * time.Hour

// ErrEmptyKey is returned when the caller passes an empty idempotency key.
var ErrEmptyKey = errors.New("idempotency: empty key")

// Store deduplicates apply requests by client-supplied key.
type Store interface {
	// Seen reports whether key has already been remembered.
	Seen(ctx context.Context, key string) (bool, error)
	// Remember marks key as seen for ttl. Use Store's configured
	// default when ttl is 0.
	Remember(ctx context.Context, key string) error
}

// RedisStore is a Store backed by Redis, namespacing keys so they don't
// collide with unrelated cache entries sharing the same instance.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed idempotency store. ttl <= 0 uses
// DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) namespaceKey(key string) string {
	return "scheduler:apply:idempotency:" + key
}

// Seen reports whether key has already been remembered.
func (s *RedisStore) Seen(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	n, err := s.client.Exists(ctx, s.namespaceKey(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Remember marks key as seen for the store's configured TTL.
func (s *RedisStore) Remember(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.client.Set(ctx, s.namespaceKey(key), "1", s.ttl).Err()
}

// InMemoryStore is a map-backed Store for tests and for running without
// Redis configured. It does not evict on its own; callers that need
// bounded memory in a long-lived process should prefer RedisStore.
type InMemoryStore struct {
	seen map[string]time.Time
	ttl  time.Duration
}

// NewInMemoryStore creates an in-memory idempotency store. ttl <= 0
// uses DefaultTTL.
func NewInMemoryStore(ttl time.Duration) *InMemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &InMemoryStore{seen: make(map[string]time.Time), ttl: ttl}
}

// Seen reports whether key was remembered within its TTL.
func (s *InMemoryStore) Seen(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	rememberedAt, ok := s.seen[key]
	if !ok {
		return false, nil
	}
	if time.Since(rememberedAt) > s.ttl {
		delete(s.seen, key)
		return false, nil
	}
	return true, nil
}

// Remember marks key as seen now.
func (s *InMemoryStore) Remember(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.seen[key] = time.Now()
	return nil
}
