// Package catalog lists the whole corpus for map and browse views.
package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hervoice/internal/domain/entry"
	"github.com/kailas-cloud/hervoice/internal/logger"
)

// CorpusProvider returns the full corpus.
type CorpusProvider interface {
	Entries(ctx context.Context) ([]entry.Entry, error)
}

// Service lists corpus entries.
type Service struct {
	corpus CorpusProvider
	logger *zap.Logger
}

// New creates a catalog service.
func New(corpus CorpusProvider, logger *zap.Logger) *Service {
	return &Service{corpus: corpus, logger: logger}
}

// List returns every entry in corpus order. Entries without usable
// coordinates are still returned and reported in the log.
func (s *Service) List(ctx context.Context) ([]entry.Entry, error) {
	entries, err := s.corpus.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list corpus: %w", err)
	}

	log := logger.FromContextOr(ctx, s.logger)
	var noGeo int
	for i := range entries {
		if !entries[i].Geo().Valid() {
			noGeo++
			log.Warn("Listing entry without usable coordinates", zap.String("id", entries[i].ID()))
		}
	}
	log.Debug("Corpus listed", zap.Int("entries", len(entries)), zap.Int("without_geo", noGeo))
	return entries, nil
}
