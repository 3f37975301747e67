package domain

import (
	"context"
	"time"
)

// SamplingOptions are the knobs passed to the external generator.
type SamplingOptions struct {
	Temperature float64
	TopP        float64
	TopK        int
	MaxTokens   int
	JSONMode    bool
}

// DefaultSamplingOptions mirrors the production generation config.
func DefaultSamplingOptions() SamplingOptions {
	return SamplingOptions{
		Temperature: 0.7,
		TopP:        0.95,
		TopK:        40,
		MaxTokens:   8192,
		JSONMode:    true,
	}
}

// Generator turns a prompt into free text. Implementations should wrap
// failures that must not be retried with Permanent.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts SamplingOptions) (string, error)
}

// Artifact is a persisted, finished entity.
type Artifact struct {
	ID        string
	Kind      EntityKind
	ParentID  string
	Payload   []byte
	CreatedAt time.Time
}

// ArtifactRepository persists finished entities. Last write wins per id.
type ArtifactRepository interface {
	Save(ctx context.Context, artifact *Artifact) error
	GetByID(ctx context.Context, id string) (*Artifact, error)
}

// TransactionManager runs fn inside a single database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
