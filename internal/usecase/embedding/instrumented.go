package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hervoice/internal/domain"
	"github.com/kailas-cloud/hervoice/internal/logger"
	"github.com/kailas-cloud/hervoice/internal/metrics"
)

// StageName labels embedding degradations in metrics and usage.
const StageName = "embedding"

// DefaultTimeout bounds a single embedding call.
const DefaultTimeout = 10 * time.Second

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
}

// InstrumentedEmbedder is the outermost embedder: per-call timeout, request
// usage accounting and logging. Budget enforcement lives in BudgetedEmbedder,
// below the cache. Transport metrics are recorded in transport/openai.
type InstrumentedEmbedder struct {
	inner    domain.Embedder
	provider string
	model    string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewInstrumentedEmbedder wraps an embedder with observability.
// timeout <= 0 uses DefaultTimeout.
func NewInstrumentedEmbedder(
	inner domain.Embedder, provider, model string,
	timeout time.Duration, logger *zap.Logger,
) *InstrumentedEmbedder {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &InstrumentedEmbedder{
		inner:    inner,
		provider: provider,
		model:    model,
		timeout:  timeout,
		logger:   logger,
	}
}

// Embed delegates to the inner embedder under a timeout and records
// request usage.
func (p *InstrumentedEmbedder) Embed(
	ctx context.Context, text string,
) (domain.EmbeddingResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	result, err := p.inner.Embed(callCtx, text)
	duration := time.Since(start)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	if result.TotalTokens > 0 {
		domain.UsageFromContext(ctx).AddEmbeddingTokens(result.TotalTokens)
	}

	p.log(ctx).Debug("Embedding request completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}

// Vector returns the embedding of text, or an empty vector when the remote
// path is unavailable for any reason. It never fails.
func (p *InstrumentedEmbedder) Vector(ctx context.Context, text string) []float32 {
	result, err := p.Embed(ctx, text)
	if err == nil && len(result.Embedding) > 0 {
		return result.Embedding
	}

	reason := domain.FallbackReason(err)
	metrics.StageFallbackTotal.WithLabelValues(StageName, reason).Inc()
	domain.UsageFromContext(ctx).MarkFallback(StageName)

	fields := []zap.Field{
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.String("reason", reason),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if reason == "credential_missing" {
		p.log(ctx).Debug("Embedding unavailable, using lexical similarity", fields...)
	} else {
		p.log(ctx).Warn("Embedding unavailable, using lexical similarity", fields...)
	}
	return nil
}

// HealthCheck delegates to the inner embedder when it supports health checks.
func (p *InstrumentedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := p.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // decorator passthrough
	}
	return nil
}

func (p *InstrumentedEmbedder) log(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, p.logger)
}
