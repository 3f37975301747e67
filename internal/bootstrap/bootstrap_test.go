package bootstrap

import (
	"context"
	"testing"

	"tuteai/internal/adapter"
	"tuteai/internal/config"
	"tuteai/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewCache_WithoutRedisUsesMemory(t *testing.T) {
	store, closeFn := NewCache(&config.Config{}, zap.NewNop())
	defer closeFn()

	_, ok := store.(*adapter.MemoryCacheAdapter)
	assert.True(t, ok)
	require.NoError(t, store.Set(context.Background(), "k", "v", 0))
}

func TestSamplingFromConfig(t *testing.T) {
	opts := SamplingFromConfig(config.LLMConfig{Temperature: 0.2, MaxOutputTokens: 1024})

	defaults := domain.DefaultSamplingOptions()
	assert.Equal(t, 0.2, opts.Temperature)
	assert.Equal(t, defaults.TopP, opts.TopP)
	assert.Equal(t, defaults.TopK, opts.TopK)
	assert.Equal(t, 1024, opts.MaxTokens)
	assert.False(t, opts.JSONMode)
}

func TestNewGenerationService_UnknownProvider(t *testing.T) {
	_, _, err := NewGenerationService(context.Background(), &config.Config{LLM: config.LLMConfig{Provider: "carrier-pigeon"}}, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestSamplingFromConfig_ZeroTemperaturePassesThrough(t *testing.T) {
	opts := SamplingFromConfig(config.LLMConfig{Temperature: 0, TopP: 0.9, JSONMode: true})

	assert.Zero(t, opts.Temperature)
	assert.Equal(t, 0.9, opts.TopP)
	assert.True(t, opts.JSONMode)
}
