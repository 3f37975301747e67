package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"tuteai/internal/cache"
	"tuteai/internal/domain"
	"tuteai/internal/logger"
	"tuteai/internal/schema"

	"go.uber.org/zap"
)

// ResponseCache memoizes finished entities under the fingerprint of the
// normalized request that produced them.
type ResponseCache interface {
	Get(ctx context.Context, kind domain.EntityKind, fingerprint string) (domain.Entity, error)
	Put(ctx context.Context, fingerprint string, entity domain.Entity) error
	Delete(ctx context.Context, kind domain.EntityKind, fingerprint string) error
}

type responseCacheImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

func NewResponseCache(c domain.Cache, ttl time.Duration) ResponseCache {
	if c == nil {
		logger.Get().Warn("ResponseCache initialized with nil cache. Service will be no-op.")
		return noopResponseCache{}
	}
	return &responseCacheImpl{cache: c, ttl: ttl}
}

func responseKey(kind domain.EntityKind, fingerprint string) string {
	return cache.GenerateCacheKey(cache.GenerationService, string(kind), fingerprint)
}

// Get returns (nil, nil) on a miss.
func (c *responseCacheImpl) Get(ctx context.Context, kind domain.EntityKind, fingerprint string) (domain.Entity, error) {
	key := responseKey(kind, fingerprint)
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, nil
		}
		return nil, domain.NewInternalError("failed to read cached response", err)
	}

	entity := domain.NewEntity(kind)
	if entity == nil {
		return nil, domain.NewUnknownKindError(kind)
	}
	if err := json.Unmarshal([]byte(data), entity); err != nil || entity.EntityID() == "" {
		logger.Get().Warn("Discarding unreadable cached response", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	return entity, nil
}

func (c *responseCacheImpl) Put(ctx context.Context, fingerprint string, entity domain.Entity) error {
	if entity == nil {
		return domain.NewInvalidInputError("cannot cache nil entity")
	}
	data, err := json.Marshal(entity)
	if err != nil {
		return domain.NewInternalError("failed to marshal response for caching", err)
	}
	key := responseKey(entity.Kind(), fingerprint)
	if err := c.cache.Set(ctx, key, string(data), c.ttl); err != nil {
		return domain.NewInternalError("failed to cache response", err)
	}
	logger.Get().Debug("Cached generation response", zap.String("key", key), zap.Duration("ttl", c.ttl))
	return nil
}

func (c *responseCacheImpl) Delete(ctx context.Context, kind domain.EntityKind, fingerprint string) error {
	if err := c.cache.Delete(ctx, responseKey(kind, fingerprint)); err != nil {
		return domain.NewInternalError("failed to delete cached response", err)
	}
	return nil
}

type noopResponseCache struct{}

func (noopResponseCache) Get(context.Context, domain.EntityKind, string) (domain.Entity, error) {
	return nil, nil
}
func (noopResponseCache) Put(context.Context, string, domain.Entity) error { return nil }
func (noopResponseCache) Delete(context.Context, domain.EntityKind, string) error {
	return nil
}

// Fingerprint hashes the normalized request. Absent optionals, empty strings
// and empty lists are dropped and keys are ordered, so requests that differ
// only in omitted fields share a fingerprint.
func Fingerprint(req domain.GenerationRequest) (string, error) {
	if req == nil {
		return "", domain.NewInvalidInputError("cannot fingerprint nil request")
	}
	raw, err := json.Marshal(req.Normalized())
	if err != nil {
		return "", domain.NewInternalError("failed to marshal request", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", domain.NewInternalError("failed to normalize request", err)
	}
	canonical := prune(fields).(map[string]any)
	canonical["kind"] = string(req.Kind())
	canonical["schema"] = schema.Version

	// encoding/json writes map keys in sorted order.
	data, err := json.Marshal(canonical)
	if err != nil {
		return "", domain.NewInternalError("failed to marshal canonical request", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func prune(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if p := prune(val); p != nil {
				out[k] = p
			}
		}
		return out
	case []any:
		if len(t) == 0 {
			return nil
		}
		out := make([]any, 0, len(t))
		for _, val := range t {
			if p := prune(val); p != nil {
				out = append(out, p)
			}
		}
		return out
	case string:
		if t == "" {
			return nil
		}
		return t
	default:
		return v
	}
}
