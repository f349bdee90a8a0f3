package domain

import (
	"context"
	"fmt"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies remote provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// DisabledEmbedder is used when no embedding credential is configured.
// Every call fails with ErrCredentialMissing, which the pipeline treats as "no embedding".
type DisabledEmbedder struct{}

// Embed always returns ErrCredentialMissing.
func (DisabledEmbedder) Embed(context.Context, string) (EmbeddingResult, error) {
	return EmbeddingResult{}, fmt.Errorf("embedding disabled: %w", ErrCredentialMissing)
}

// HealthCheck reports the provider as not configured.
func (DisabledEmbedder) HealthCheck(context.Context) error {
	return fmt.Errorf("embedding disabled: %w", ErrCredentialMissing)
}
