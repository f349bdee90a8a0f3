package understanding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hervoice/internal/domain"
	"github.com/kailas-cloud/hervoice/internal/domain/query"
	"github.com/kailas-cloud/hervoice/internal/logger"
	"github.com/kailas-cloud/hervoice/internal/metrics"
)

// StageName labels understanding degradations in metrics and usage.
const StageName = "understanding"

// DefaultTimeout bounds a single extraction call.
const DefaultTimeout = 15 * time.Second

// Service turns a raw message into a Query. It never fails: any remote
// problem degrades to whitespace tokenization.
type Service struct {
	extractor Extractor
	budget    BudgetChecker
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a Service. A nil extractor means no credential is configured.
// budget may be nil (unlimited). timeout <= 0 uses DefaultTimeout.
func New(extractor Extractor, budget BudgetChecker, timeout time.Duration, logger *zap.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		extractor: extractor,
		budget:    budget,
		timeout:   timeout,
		logger:    logger,
	}
}

// Understand extracts keywords and situation from raw.
func (s *Service) Understand(ctx context.Context, raw string) query.Query {
	ext, err := s.extract(ctx, raw)
	if err == nil {
		return ext.Query(raw)
	}

	reason := domain.FallbackReason(err)
	metrics.StageFallbackTotal.WithLabelValues(StageName, reason).Inc()
	domain.UsageFromContext(ctx).MarkFallback(StageName)

	log := logger.FromContextOr(ctx, s.logger)
	switch {
	case errors.Is(err, domain.ErrCredentialMissing):
		log.Debug("Keyword extraction disabled, tokenizing query", zap.String("reason", reason))
	case errors.Is(err, domain.ErrBudgetExceeded):
		log.Warn("Token budget exhausted, tokenizing query", zap.Error(err))
	case errors.Is(err, domain.ErrMalformedResponse):
		log.Warn("Keyword extraction reply unusable, tokenizing query", zap.Error(err))
	default:
		log.Warn("Keyword extraction failed, tokenizing query",
			zap.String("reason", reason),
			zap.Error(err),
		)
	}
	return query.Fallback(raw)
}

func (s *Service) extract(ctx context.Context, raw string) (query.Extraction, error) {
	if s.extractor == nil {
		return query.Extraction{}, fmt.Errorf("keyword extraction: %w", domain.ErrCredentialMissing)
	}
	if s.budget != nil {
		if err := s.budget.Check(ctx); err != nil {
			return query.Extraction{}, fmt.Errorf("budget check: %w", err)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ext, err := s.extractor.Extract(callCtx, raw)
	// A malformed reply is still billed.
	if ext.TotalTokens > 0 {
		if s.budget != nil {
			s.budget.Record(int64(ext.TotalTokens))
		}
		domain.UsageFromContext(ctx).AddLLMTokens(ext.TotalTokens)
	}
	if err != nil {
		return query.Extraction{}, fmt.Errorf("keyword extraction: %w", err)
	}
	if len(ext.Keywords) == 0 {
		return query.Extraction{}, fmt.Errorf("no keywords extracted: %w", domain.ErrMalformedResponse)
	}
	return ext, nil
}
