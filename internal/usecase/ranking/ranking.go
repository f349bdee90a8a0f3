// Package ranking scores recalled candidates by semantic similarity and keyword overlap.
package ranking

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/hervoice/internal/domain"
	"github.com/kailas-cloud/hervoice/internal/domain/candidate"
	"github.com/kailas-cloud/hervoice/internal/domain/query"
	"github.com/kailas-cloud/hervoice/internal/domain/similarity"
	"github.com/kailas-cloud/hervoice/internal/logger"
)

// Vectorizer returns an embedding, or an empty vector when none is available.
type Vectorizer interface {
	Vector(ctx context.Context, text string) []float32
}

// Service ranks candidates. Safe for concurrent use.
type Service struct {
	vectors Vectorizer
	logger  *zap.Logger
}

// New creates a ranking Service.
func New(vectors Vectorizer, logger *zap.Logger) *Service {
	return &Service{vectors: vectors, logger: logger}
}

// Rank scores every candidate and returns them sorted by fused score (desc,
// stable over recall order). Candidates are scored concurrently; each result
// is written to its own slot so completion order cannot change the ranking.
func (s *Service) Rank(ctx context.Context, candidates []candidate.Candidate, q query.Query) []candidate.Candidate {
	if len(candidates) == 0 {
		return []candidate.Candidate{}
	}

	queryText := q.EmbeddingText()
	queryVec := s.vectors.Vector(ctx, queryText)

	scored := make([]candidate.Candidate, len(candidates))
	var g errgroup.Group
	g.SetLimit(domain.CandidatePoolSize)
	for i, c := range candidates {
		g.Go(func() error {
			scored[i] = s.score(ctx, c, q, queryText, queryVec)
			return nil
		})
	}
	_ = g.Wait() // scoring never fails

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score() > scored[j].Score()
	})

	logger.FromContextOr(ctx, s.logger).Debug("Candidates ranked",
		zap.Int("candidates", len(scored)),
		zap.Bool("query_embedded", len(queryVec) > 0),
	)
	return scored
}

func (s *Service) score(
	ctx context.Context, c candidate.Candidate, q query.Query, queryText string, queryVec []float32,
) candidate.Candidate {
	e := c.Entry()
	entryText := e.EmbeddingText(domain.EntryTranscriptPrefix)

	var sim float64
	var entryVec []float32
	if len(queryVec) > 0 {
		entryVec = s.vectors.Vector(ctx, entryText)
	}
	if len(queryVec) > 0 && len(entryVec) > 0 {
		sim = similarity.Cosine(queryVec, entryVec)
	} else {
		sim = similarity.Jaccard(queryText, entryText)
	}

	if sit := q.Situation(); sit.IsSet() && sit == e.Meta().Situation {
		sim += domain.SituationBonus
	}

	return c.WithScores(sim, candidate.Fuse(c.MatchCount(), sim, domain.KeywordWeight, domain.SimilarityWeight))
}
