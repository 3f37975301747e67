package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tuteai/internal/cache"
	"tuteai/internal/domain"
	"tuteai/internal/logger"

	"go.uber.org/zap"
)

// ContextStore keeps the trimmed projection of each generated course, module and
// lesson so descendants can condition their prompts on it.
type ContextStore interface {
	Put(ctx context.Context, rec *domain.ContextRecord) error
	// Get returns (nil, nil) when no record is stored.
	Get(ctx context.Context, kind domain.EntityKind, id string) (*domain.ContextRecord, error)
	Delete(ctx context.Context, kind domain.EntityKind, id string) error
}

type contextStoreImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewContextStore returns a store over cache. A nil cache yields a store that
// keeps nothing, so every lookup falls back.
func NewContextStore(c domain.Cache, ttl time.Duration) ContextStore {
	if c == nil {
		logger.Get().Warn("ContextStore initialized with nil cache. Service will be no-op.")
		return noopContextStore{}
	}
	return &contextStoreImpl{cache: c, ttl: ttl}
}

func contextKey(kind domain.EntityKind, id string) string {
	return cache.GenerateCacheKey(cache.ContextService, string(kind), id)
}

func (s *contextStoreImpl) Put(ctx context.Context, rec *domain.ContextRecord) error {
	if rec == nil || rec.EntityID == "" {
		return domain.NewInvalidInputError("cannot store context without an entity id")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return domain.NewInternalError("failed to marshal context record", err)
	}
	key := contextKey(rec.Kind, rec.EntityID)
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		return domain.NewInternalError("failed to store context record", err)
	}
	logger.Get().Debug("Stored context record", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return nil
}

func (s *contextStoreImpl) Get(ctx context.Context, kind domain.EntityKind, id string) (*domain.ContextRecord, error) {
	if id == "" {
		return nil, nil
	}
	key := contextKey(kind, id)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, nil
		}
		return nil, domain.NewInternalError("failed to read context record", err)
	}

	var rec domain.ContextRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		// A corrupt entry is indistinguishable from an absent one for callers.
		logger.Get().Warn("Discarding unreadable context record", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	return &rec, nil
}

func (s *contextStoreImpl) Delete(ctx context.Context, kind domain.EntityKind, id string) error {
	if err := s.cache.Delete(ctx, contextKey(kind, id)); err != nil {
		return domain.NewInternalError("failed to delete context record", err)
	}
	return nil
}

type noopContextStore struct{}

func (noopContextStore) Put(context.Context, *domain.ContextRecord) error { return nil }
func (noopContextStore) Get(context.Context, domain.EntityKind, string) (*domain.ContextRecord, error) {
	return nil, nil
}
func (noopContextStore) Delete(context.Context, domain.EntityKind, string) error { return nil }
