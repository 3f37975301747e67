package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tuteai/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisCacheAdapter implements domain.Cache on top of Redis. It backs both the
// context store and the response cache, which share one keyspace under
// distinct key prefixes.
type RedisCacheAdapter struct {
	client    redis.UniversalClient
	opTimeout time.Duration
}

// NewRedisCacheAdapter creates a new instance of RedisCacheAdapter.
// opTimeout bounds every call; zero leaves the caller's deadline in charge.
func NewRedisCacheAdapter(client redis.UniversalClient, opTimeout time.Duration) *RedisCacheAdapter {
	return &RedisCacheAdapter{client: client, opTimeout: opTimeout}
}

func (r *RedisCacheAdapter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.opTimeout)
}

// Get translates redis.Nil to domain.ErrCacheMiss.
func (r *RedisCacheAdapter) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrCacheMiss
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Set overwrites key. A non-positive expiration stores the value without TTL.
func (r *RedisCacheAdapter) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if expiration < 0 {
		expiration = 0
	}
	if err := r.client.Set(ctx, key, value, expiration).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisCacheAdapter) Delete(ctx context.Context, key string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *RedisCacheAdapter) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.client.Ping(ctx).Err()
}

var _ domain.Cache = (*RedisCacheAdapter)(nil)
