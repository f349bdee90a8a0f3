// Package corpus is the read-only story corpus, loaded once at startup.
package corpus

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hervoice/internal/domain"
	"github.com/kailas-cloud/hervoice/internal/domain/entry"
)

//go:embed dataset.json
var referenceDataset []byte

// EmbeddedSource names the built-in reference dataset in logs.
const EmbeddedSource = "embedded"

// Repo holds the immutable corpus in load order.
type Repo struct {
	entries []entry.Entry
	source  string
}

// Open loads the corpus from path, or the embedded reference dataset when
// path is empty.
func Open(path string, logger *zap.Logger) (*Repo, error) {
	if path == "" {
		return Load(referenceDataset, EmbeddedSource, logger)
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrCorpusUnavailable, path, err)
	}
	return Load(data, path, logger)
}

// Load parses a JSON array of entries. Rows that fail validation and rows
// with a duplicate ID are skipped with a warning; entries without usable
// coordinates are kept and reported.
func Load(data []byte, source string, logger *zap.Logger) (*Repo, error) {
	var rows []entryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrCorpusUnavailable, source, err)
	}

	entries := make([]entry.Entry, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for i := range rows {
		e, err := rows[i].toEntry()
		if err != nil {
			logger.Warn("Skipping invalid corpus entry", zap.Int("index", i), zap.Error(err))
			continue
		}
		if _, dup := seen[e.ID()]; dup {
			logger.Warn("Skipping duplicate corpus entry", zap.String("id", e.ID()))
			continue
		}
		seen[e.ID()] = struct{}{}
		if !e.Geo().Valid() {
			logger.Warn("Corpus entry has no usable coordinates", zap.String("id", e.ID()))
		}
		entries = append(entries, e)
	}

	logger.Info("Corpus loaded",
		zap.String("source", source),
		zap.Int("entries", len(entries)),
		zap.Int("skipped", len(rows)-len(entries)),
	)
	return &Repo{entries: entries, source: source}, nil
}

// Entries returns the corpus. The slice is a copy; entries are immutable.
func (r *Repo) Entries(_ context.Context) ([]entry.Entry, error) {
	out := make([]entry.Entry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

// Len returns the number of loaded entries.
func (r *Repo) Len() int { return len(r.entries) }

// Source returns where the corpus was loaded from.
func (r *Repo) Source() string { return r.source }

// Ping reports an empty corpus as unavailable.
func (r *Repo) Ping(_ context.Context) error {
	if len(r.entries) == 0 {
		return fmt.Errorf("%w: no entries loaded", domain.ErrCorpusUnavailable)
	}
	return nil
}
