package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tuteai/internal/config"
	"tuteai/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	ProviderOllama   = "ollama"
	ProviderOpenAI   = "openai"
	ProviderGoogleAI = "googleai"
)

// LangchainGenerator implements domain.Generator over any langchaingo model.
type LangchainGenerator struct {
	model    llms.Model
	name     string
	timeout  time.Duration
	jsonMode bool
}

// NewLangchainGenerator wraps an already constructed model. name is reported by Model.
func NewLangchainGenerator(model llms.Model, name string, timeout time.Duration, jsonMode bool) *LangchainGenerator {
	return &LangchainGenerator{model: model, name: name, timeout: timeout, jsonMode: jsonMode}
}

// NewFromConfig builds the model for cfg.Provider.
func NewFromConfig(ctx context.Context, cfg config.LLMConfig) (*LangchainGenerator, error) {
	var (
		model llms.Model
		err   error
	)
	switch strings.ToLower(cfg.Provider) {
	case ProviderOllama, "":
		if cfg.ServerURL == "" {
			return nil, fmt.Errorf("ollama server URL cannot be empty")
		}
		opts := []ollama.Option{
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		}
		if cfg.JSONMode {
			opts = append(opts, ollama.WithFormat("json"))
		}
		model, err = ollama.New(opts...)
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai API key cannot be empty")
		}
		opts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model)}
		if cfg.ServerURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.ServerURL))
		}
		model, err = openai.New(opts...)
	case ProviderGoogleAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("googleai API key cannot be empty")
		}
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
			googleai.WithDefaultMaxTokens(cfg.MaxOutputTokens),
		)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}
	return NewLangchainGenerator(model, cfg.Model, cfg.Timeout, cfg.JSONMode), nil
}

// Model returns the configured model name.
func (g *LangchainGenerator) Model() string {
	return g.name
}

func (g *LangchainGenerator) Generate(ctx context.Context, prompt string, opts domain.SamplingOptions) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", domain.Permanent(domain.NewInvalidInputError("prompt cannot be empty"))
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	callOpts := []llms.CallOption{llms.WithTemperature(opts.Temperature)}
	if opts.TopP > 0 {
		callOpts = append(callOpts, llms.WithTopP(opts.TopP))
	}
	if opts.TopK > 0 {
		callOpts = append(callOpts, llms.WithTopK(opts.TopK))
	}
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}
	if opts.JSONMode && g.jsonMode {
		callOpts = append(callOpts, llms.WithJSONMode())
	}

	text, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, callOpts...)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", domain.Permanent(err)
		}
		return "", fmt.Errorf("%s call failed: %w", g.name, err)
	}
	return text, nil
}

var _ domain.Generator = (*LangchainGenerator)(nil)
