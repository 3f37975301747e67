package service

import (
	"context"
	"time"

	"tuteai/internal/domain"

	"go.uber.org/zap"
)

// Attempt describes one call to the external generator.
type Attempt struct {
	Number      int
	MaxAttempts int
	Latency     time.Duration
	Err         error
}

// GenerationClient calls a domain.Generator under a RetryPolicy.
type GenerationClient struct {
	generator domain.Generator
	policy    RetryPolicy
	sampling  domain.SamplingOptions
	logger    *zap.Logger
	// OnAttempt, when set, is called after every attempt.
	OnAttempt func(Attempt)
}

func NewGenerationClient(generator domain.Generator, policy RetryPolicy, sampling domain.SamplingOptions, logger *zap.Logger) *GenerationClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationClient{
		generator: generator,
		policy:    policy,
		sampling:  normalizeSampling(sampling),
		logger:    logger,
	}
}

// Generate returns the raw generator text unmodified. Transient failures are
// retried; after the last attempt the error is wrapped as an LLM service error.
func (c *GenerationClient) Generate(ctx context.Context, prompt string) (string, error) {
	maxAttempts := c.policy.attempts()
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		start := time.Now()
		text, err := c.generator.Generate(ctx, prompt, c.sampling)
		latency := time.Since(start)

		fields := []zap.Field{
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Duration("latency", latency),
			zap.Int("prompt_chars", len(prompt)),
		}
		if c.OnAttempt != nil {
			c.OnAttempt(Attempt{Number: attempt, MaxAttempts: maxAttempts, Latency: latency, Err: err})
		}
		if err == nil {
			c.logger.Debug("Generator call succeeded", append(fields, zap.Int("response_chars", len(text)))...)
			return text, nil
		}

		lastErr = err
		c.logger.Warn("Generator call failed", append(fields, zap.Error(err))...)

		if domain.IsPermanent(err) || ctx.Err() != nil || attempt == maxAttempts {
			break
		}
		if sleepErr := c.policy.sleep(ctx, c.policy.Backoff(attempt)); sleepErr != nil {
			lastErr = sleepErr
			break
		}
	}

	c.logger.Error("Generator gave up", zap.Error(lastErr))
	return "", domain.NewLLMServiceError(lastErr)
}

func normalizeSampling(o domain.SamplingOptions) domain.SamplingOptions {
	o.Temperature = min(max(o.Temperature, 0), 1)
	if o.TopP < 0 || o.TopP > 1 {
		o.TopP = domain.DefaultSamplingOptions().TopP
	}
	if o.TopK < 0 {
		o.TopK = 0
	}
	if o.MaxTokens < 0 {
		o.MaxTokens = 0
	}
	return o
}
