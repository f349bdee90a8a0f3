package search

import (
	"fmt"

	"github.com/kailas-cloud/hervoice/internal/domain"
	"github.com/kailas-cloud/hervoice/internal/domain/candidate"
	"github.com/kailas-cloud/hervoice/internal/domain/entry"
	"github.com/kailas-cloud/hervoice/internal/domain/query"
)

const (
	foundMessageFormat = "我为你找到了 %d 段相关的经历。"
	notFoundMessage    = "抱歉，我没有找到相关的经历。你可以尝试换个方式描述你的处境。"
)

// Match is one returned entry with its per-query annotations.
type Match struct {
	Entry           entry.Entry
	MatchedKeywords []string
	Similarity      float64
	Score           float64
}

// Result is the assembled pipeline output.
type Result struct {
	Message       string
	Matches       []Match
	QueryKeywords []string
	Situation     string
	Source        query.Source
}

// Assemble takes the top domain.TopK ranked candidates and builds the reply.
// Query keywords are surfaced unchanged.
func Assemble(ranked []candidate.Candidate, q query.Query) Result {
	n := min(len(ranked), domain.TopK)

	matches := make([]Match, 0, n)
	for _, c := range ranked[:n] {
		matches = append(matches, Match{
			Entry:           c.Entry(),
			MatchedKeywords: c.MatchedKeywords(),
			Similarity:      c.Similarity(),
			Score:           c.Score(),
		})
	}

	return Result{
		Message:       StatusMessage(len(matches)),
		Matches:       matches,
		QueryKeywords: q.Keywords(),
		Situation:     string(q.Situation()),
		Source:        q.Source(),
	}
}

// StatusMessage is the user-facing summary for n returned entries.
func StatusMessage(n int) string {
	if n == 0 {
		return notFoundMessage
	}
	return fmt.Sprintf(foundMessageFormat, n)
}
