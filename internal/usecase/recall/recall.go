// Package recall narrows the corpus to a small candidate pool by keyword overlap.
package recall

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/hervoice/internal/domain"
	"github.com/kailas-cloud/hervoice/internal/domain/candidate"
	"github.com/kailas-cloud/hervoice/internal/domain/entry"
)

// Recall returns at most domain.CandidatePoolSize candidates ordered by
// keyword match count (desc, stable over corpus order). Entries with no
// match are dropped unless the corpus is smaller than the pool.
func Recall(entries []entry.Entry, keywords []string) []candidate.Candidate {
	lowered := lowerNonEmpty(keywords)
	relaxed := len(entries) < domain.CandidatePoolSize

	pool := make([]candidate.Candidate, 0, len(entries))
	for _, e := range entries {
		matched := match(lowered, e.Keywords())
		if len(matched) == 0 && !relaxed {
			continue
		}
		pool = append(pool, candidate.New(e, matched))
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].MatchCount() > pool[j].MatchCount()
	})

	if len(pool) > domain.CandidatePoolSize {
		pool = pool[:domain.CandidatePoolSize]
	}
	return pool
}

// match returns the query keywords that case-insensitively contain, or are
// contained in, at least one entry keyword. Query order and duplicates are
// preserved.
func match(query []keyword, entryKeywords []string) []string {
	entryLower := make([]string, 0, len(entryKeywords))
	for _, ek := range entryKeywords {
		if ek = strings.ToLower(strings.TrimSpace(ek)); ek != "" {
			entryLower = append(entryLower, ek)
		}
	}

	matched := make([]string, 0)
	for _, qk := range query {
		for _, ek := range entryLower {
			if strings.Contains(ek, qk.lower) || strings.Contains(qk.lower, ek) {
				matched = append(matched, qk.original)
				break
			}
		}
	}
	return matched
}

type keyword struct {
	original string
	lower    string
}

// lowerNonEmpty drops blank keywords: an empty string is a substring of everything.
func lowerNonEmpty(keywords []string) []keyword {
	out := make([]keyword, 0, len(keywords))
	for _, k := range keywords {
		l := strings.ToLower(strings.TrimSpace(k))
		if l == "" {
			continue
		}
		out = append(out, keyword{original: k, lower: l})
	}
	return out
}
