package search

import (
	"context"

	"github.com/kailas-cloud/hervoice/internal/domain/candidate"
	"github.com/kailas-cloud/hervoice/internal/domain/entry"
	"github.com/kailas-cloud/hervoice/internal/domain/query"
)

// CorpusProvider returns the full corpus.
type CorpusProvider interface {
	Entries(ctx context.Context) ([]entry.Entry, error)
}

// Understander turns a raw message into a Query. It never fails.
type Understander interface {
	Understand(ctx context.Context, raw string) query.Query
}

// Ranker scores and orders recalled candidates. It never fails.
type Ranker interface {
	Rank(ctx context.Context, candidates []candidate.Candidate, q query.Query) []candidate.Candidate
}
