package query

import "github.com/kailas-cloud/hervoice/internal/domain/situation"

// Extraction is the normalized result of a remote keyword extraction call.
// Keywords are trimmed and non-empty; Situation is already mapped onto the enum.
type Extraction struct {
	Keywords    []string
	Situation   situation.Situation
	TotalTokens int
}

// Query converts the extraction into a Query for raw.
func (e Extraction) Query(raw string) Query {
	return New(raw, e.Keywords, e.Situation, SourceLLM)
}
