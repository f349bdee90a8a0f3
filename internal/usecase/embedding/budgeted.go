package embedding

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/hervoice/internal/domain"
)

// BudgetedEmbedder gates the remote embedder on the token budget and
// records what it spends. It sits inside the cache, so cache hits are
// served even after the budget is exhausted.
type BudgetedEmbedder struct {
	inner  domain.Embedder
	budget BudgetChecker
}

// NewBudgetedEmbedder wraps inner with budget enforcement. budget may be nil (unlimited).
func NewBudgetedEmbedder(inner domain.Embedder, budget BudgetChecker) *BudgetedEmbedder {
	return &BudgetedEmbedder{inner: inner, budget: budget}
}

// Embed checks the budget, calls the remote embedder and records its tokens.
func (b *BudgetedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if b.budget != nil {
		if err := b.budget.Check(ctx); err != nil {
			return domain.EmbeddingResult{}, fmt.Errorf("budget check: %w", err)
		}
	}

	result, err := b.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err //nolint:wrapcheck // decorator passthrough
	}
	if b.budget != nil && result.TotalTokens > 0 {
		b.budget.Record(int64(result.TotalTokens))
	}
	return result, nil
}

// HealthCheck delegates to the inner embedder when it supports health checks.
func (b *BudgetedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := b.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // decorator passthrough
	}
	return nil
}
