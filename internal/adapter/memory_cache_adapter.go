package adapter

import (
	"context"
	"errors"
	"time"

	"tuteai/internal/domain"

	"github.com/bluele/gcache"
)

const DefaultMemoryCacheSize = 10000

// MemoryCacheAdapter implements domain.Cache with an in-process LRU. It is used
// when no Redis address is configured, and is scoped to the process that built it.
type MemoryCacheAdapter struct {
	lru gcache.Cache
}

// NewMemoryCacheAdapter creates an LRU holding at most size entries.
func NewMemoryCacheAdapter(size int) *MemoryCacheAdapter {
	if size <= 0 {
		size = DefaultMemoryCacheSize
	}
	return &MemoryCacheAdapter{lru: gcache.New(size).LRU().Build()}
}

func (m *MemoryCacheAdapter) Get(_ context.Context, key string) (string, error) {
	val, err := m.lru.Get(key)
	if err != nil {
		if errors.Is(err, gcache.KeyNotFoundError) {
			return "", domain.ErrCacheMiss
		}
		return "", err
	}
	s, ok := val.(string)
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return s, nil
}

func (m *MemoryCacheAdapter) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	if expiration > 0 {
		return m.lru.SetWithExpire(key, value, expiration)
	}
	return m.lru.Set(key, value)
}

func (m *MemoryCacheAdapter) Delete(_ context.Context, key string) error {
	m.lru.Remove(key)
	return nil
}

func (m *MemoryCacheAdapter) Ping(_ context.Context) error {
	return nil
}

var _ domain.Cache = (*MemoryCacheAdapter)(nil)
