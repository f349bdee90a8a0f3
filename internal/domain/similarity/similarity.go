// Package similarity holds the vector and lexical similarity measures used for ranking.
package similarity

import (
	"math"
	"strings"
)

// Cosine returns the cosine similarity of two vectors.
// Returns 0 when either vector is empty, the lengths differ, or a norm is zero.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

// Jaccard returns |A∩B| / |A∪B| over the lowercased whitespace tokens of a and b.
// Returns 0 when both texts have no tokens.
func Jaccard(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	union := len(setA)
	var inter int
	for tok := range setB {
		if _, ok := setA[tok]; ok {
			inter++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
