package query

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/hervoice/internal/domain/situation"
)

// Source tells where the keywords of a query came from.
type Source string

const (
	// SourceLLM means the remote language-understanding call succeeded.
	SourceLLM Source = "llm"
	// SourceFallback means the deterministic tokenizer was used.
	SourceFallback Source = "fallback"
)

// Query is the understood form of a user's free-text message.
type Query struct {
	raw       string
	keywords  []string
	situation situation.Situation
	source    Source
}

// New creates a Query. A nil keyword list is stored as an empty one.
func New(raw string, keywords []string, sit situation.Situation, source Source) Query {
	kws := make([]string, len(keywords))
	copy(kws, keywords)
	if !sit.IsValid() {
		sit = situation.None
	}
	return Query{raw: raw, keywords: kws, situation: sit, source: source}
}

// Fallback builds a Query by splitting raw on whitespace and keeping tokens
// longer than one character. Situation is absent.
func Fallback(raw string) Query {
	return New(raw, Tokenize(raw), situation.None, SourceFallback)
}

// Tokenize splits on whitespace and drops single-character tokens.
func Tokenize(raw string) []string {
	fields := strings.Fields(raw)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) > 1 {
			out = append(out, f)
		}
	}
	return out
}

// Raw returns the original message.
func (q *Query) Raw() string { return q.raw }

// Keywords returns the extracted keywords (never nil).
func (q *Query) Keywords() []string { return q.keywords }

// Situation returns the extracted situation, or situation.None.
func (q *Query) Situation() situation.Situation { return q.situation }

// Source returns how the query was understood.
func (q *Query) Source() Source { return q.source }

// EmbeddingText is the query representation used for semantic comparison.
func (q *Query) EmbeddingText() string {
	return q.raw + " " + strings.Join(q.keywords, " ")
}
