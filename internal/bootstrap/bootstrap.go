// Package bootstrap wires the pipeline from configuration for the binaries under cmd/.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"tuteai/internal/adapter"
	"tuteai/internal/adapter/llm"
	"tuteai/internal/cache"
	"tuteai/internal/config"
	"tuteai/internal/domain"
	"tuteai/internal/service"

	"go.uber.org/zap"
)

const redisOpTimeout = 2 * time.Second

// NewCache connects to Redis when an address is configured and otherwise
// falls back to an in-process LRU. The returned func releases the backend.
func NewCache(cfg *config.Config, log *zap.Logger) (domain.Cache, func()) {
	if cfg.Redis.Address == "" {
		log.Info("Redis address not configured, using in-memory cache")
		return adapter.NewMemoryCacheAdapter(adapter.DefaultMemoryCacheSize), func() {}
	}

	client, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("Failed to connect to Redis, using in-memory cache", zap.Error(err))
		return adapter.NewMemoryCacheAdapter(adapter.DefaultMemoryCacheSize), func() {}
	}
	log.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
	return adapter.NewRedisCacheAdapter(client, redisOpTimeout), func() {
		if err := client.Close(); err != nil {
			log.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
}

// SamplingFromConfig builds sampling options from the llm section.
func SamplingFromConfig(cfg config.LLMConfig) domain.SamplingOptions {
	opts := domain.DefaultSamplingOptions()
	// 0.0 is a valid temperature; viper supplies the 0.7 default.
	opts.Temperature = cfg.Temperature
	if cfg.TopP > 0 {
		opts.TopP = cfg.TopP
	}
	if cfg.TopK > 0 {
		opts.TopK = cfg.TopK
	}
	if cfg.MaxOutputTokens > 0 {
		opts.MaxTokens = cfg.MaxOutputTokens
	}
	opts.JSONMode = cfg.JSONMode
	return opts
}

// NewGenerationService builds the generator, retry client, stores and service.
// It returns the model name for reporting.
func NewGenerationService(ctx context.Context, cfg *config.Config, store domain.Cache, log *zap.Logger, opts ...service.Option) (*service.GenerationService, string, error) {
	generator, err := llm.NewFromConfig(ctx, cfg.LLM)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create LLM generator: %w", err)
	}
	log.Info("LLM generator initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", generator.Model()),
	)

	client := service.NewGenerationClient(generator, service.RetryPolicyFromConfig(cfg.Retry), SamplingFromConfig(cfg.LLM), log)
	svc := service.NewGenerationService(
		client,
		service.NewContextStore(store, cfg.ContextTTL()),
		service.NewResponseCache(store, cfg.ResponseTTL()),
		log,
		opts...,
	)
	return svc, generator.Model(), nil
}
