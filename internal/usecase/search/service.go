package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hervoice/internal/domain"
	"github.com/kailas-cloud/hervoice/internal/logger"
	"github.com/kailas-cloud/hervoice/internal/metrics"
	"github.com/kailas-cloud/hervoice/internal/usecase/recall"
)

// Service runs the retrieval pipeline for one message at a time.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	corpus     CorpusProvider
	understand Understander
	rank       Ranker
	logger     *zap.Logger
}

// New creates a search service.
func New(corpus CorpusProvider, understand Understander, rank Ranker, logger *zap.Logger) *Service {
	return &Service{
		corpus:     corpus,
		understand: understand,
		rank:       rank,
		logger:     logger,
	}
}

// Search answers message with at most domain.TopK entries.
// Remote failures degrade inside the stages; only invalid input
// (domain.ErrInvalidQuery) and corpus faults (domain.ErrCorpusUnavailable)
// are returned as errors.
func (s *Service) Search(ctx context.Context, message string) (Result, error) {
	r := &run{state: StateIdle, log: logger.FromContextOr(ctx, s.logger), start: time.Now()}

	if strings.TrimSpace(message) == "" {
		return Result{}, r.fail(fmt.Errorf("%w: message is required", domain.ErrInvalidQuery))
	}

	r.to(StateUnderstanding)
	q := s.understand.Understand(ctx, message)

	r.to(StateRecalling)
	entries, err := s.corpus.Entries(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrCorpusUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrCorpusUnavailable, err)
		}
		return Result{}, r.fail(fmt.Errorf("load corpus: %w", err))
	}
	pool := recall.Recall(entries, q.Keywords())

	r.to(StateRanking, zap.Int("candidates", len(pool)))
	ranked := s.rank.Rank(ctx, pool, q)

	result := Assemble(ranked, q)
	r.to(StateAssembled, zap.Int("results", len(result.Matches)))
	r.finish()
	metrics.ResultsReturned.Observe(float64(len(result.Matches)))

	r.log.Info("Query answered",
		zap.String("keyword_source", string(q.Source())),
		zap.Strings("query_keywords", q.Keywords()),
		zap.String("situation", string(q.Situation())),
		zap.Int("corpus_size", len(entries)),
		zap.Int("candidates", len(pool)),
		zap.Int("results", len(result.Matches)),
	)
	return result, nil
}

// run tracks the state of a single pipeline execution.
type run struct {
	state State
	log   *zap.Logger
	start time.Time
}

func (r *run) to(next State, fields ...zap.Field) {
	if !r.state.CanTransition(next) {
		r.log.Error("Illegal pipeline transition",
			zap.String("from", string(r.state)),
			zap.String("to", string(next)),
		)
	}
	r.log.Debug("Pipeline transition",
		append([]zap.Field{
			zap.String("from", string(r.state)),
			zap.String("to", string(next)),
		}, fields...)...,
	)
	r.state = next
}

func (r *run) fail(err error) error {
	r.to(StateFailed, zap.Error(err))
	r.finish()
	return err
}

func (r *run) finish() {
	metrics.PipelineRunsTotal.WithLabelValues(string(r.state)).Inc()
	metrics.PipelineDuration.Observe(time.Since(r.start).Seconds())
}
