package candidate

import "github.com/kailas-cloud/hervoice/internal/domain/entry"

// Candidate is a corpus entry considered for one query, with its scores.
type Candidate struct {
	entry           entry.Entry
	matchCount      int
	matchedKeywords []string
	similarity      float64
	score           float64
}

// New creates a recalled candidate (no semantic score yet).
func New(e entry.Entry, matchedKeywords []string) Candidate {
	mk := make([]string, len(matchedKeywords))
	copy(mk, matchedKeywords)
	return Candidate{entry: e, matchCount: len(mk), matchedKeywords: mk}
}

// Entry returns the underlying corpus entry.
func (c Candidate) Entry() entry.Entry { return c.entry }

// MatchCount returns how many query keywords matched the entry keywords.
func (c Candidate) MatchCount() int { return c.matchCount }

// MatchedKeywords returns the matched query keywords (never nil).
func (c Candidate) MatchedKeywords() []string { return c.matchedKeywords }

// Similarity returns the semantic similarity, bonus included. May exceed 1.0.
func (c Candidate) Similarity() float64 { return c.similarity }

// Score returns the fused ranking score.
func (c Candidate) Score() float64 { return c.score }

// WithScores returns a copy carrying the semantic similarity and fused score.
func (c Candidate) WithScores(similarity, score float64) Candidate {
	c.similarity = similarity
	c.score = score
	return c
}

// Fuse combines the keyword match count and similarity into one ranking score.
// The count is deliberately not normalized.
func Fuse(matchCount int, similarity, keywordWeight, similarityWeight float64) float64 {
	return keywordWeight*float64(matchCount) + similarityWeight*similarity
}
