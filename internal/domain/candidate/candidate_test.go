package candidate

import (
	"math"
	"testing"

	"github.com/kailas-cloud/hervoice/internal/domain/entry"
)

func TestNew_CountsMatches(t *testing.T) {
	e, _ := entry.New(entry.Fields{ID: "a", Summary: "s"})
	c := New(e, []string{"x", "y"})
	if c.MatchCount() != 2 {
		t.Errorf("expected 2, got %d", c.MatchCount())
	}
	if got := c.Entry(); got.ID() != "a" {
		t.Errorf("unexpected entry %q", got.ID())
	}

	none := New(e, nil)
	if none.MatchedKeywords() == nil || none.MatchCount() != 0 {
		t.Error("expected empty, non-nil matched keywords")
	}
}

func TestCandidate_ValueSemantics(t *testing.T) {
	e, _ := entry.New(entry.Fields{ID: "a", Summary: "s"})
	byID := map[string]Candidate{"a": New(e, []string{"x"})}

	if byID["a"].MatchCount() != 1 || New(e, nil).Score() != 0 {
		t.Error("getters must work on non-addressable values")
	}

	base := New(e, []string{"x"})
	scored := base.WithScores(0.4, 0.58)
	if base.Similarity() != 0 || base.Score() != 0 {
		t.Error("WithScores must not modify the receiver")
	}
	if scored.Similarity() != 0.4 || scored.Score() != 0.58 {
		t.Errorf("scored = %v/%v", scored.Similarity(), scored.Score())
	}
}

func TestFuse_Formula(t *testing.T) {
	got := Fuse(2, 0.5, 0.3, 0.7)
	if math.Abs(got-0.95) > 1e-12 {
		t.Errorf("expected 0.95, got %f", got)
	}
}

func TestFuse_Monotonic(t *testing.T) {
	sims := []float64{0, 0.25, 0.5, 1.0, 1.1}
	for count := 0; count < 6; count++ {
		for i := 1; i < len(sims); i++ {
			if Fuse(count, sims[i], 0.3, 0.7) < Fuse(count, sims[i-1], 0.3, 0.7) {
				t.Errorf("not monotonic in similarity at count=%d", count)
			}
		}
	}
	for _, s := range sims {
		for count := 1; count < 6; count++ {
			if Fuse(count, s, 0.3, 0.7) < Fuse(count-1, s, 0.3, 0.7) {
				t.Errorf("not monotonic in count at sim=%f", s)
			}
		}
	}
}

func TestWithScores_DoesNotMutateOriginal(t *testing.T) {
	e, _ := entry.New(entry.Fields{ID: "a", Summary: "s"})
	c := New(e, []string{"x"})
	scored := c.WithScores(0.8, 0.86)
	if c.Score() != 0 || c.Similarity() != 0 {
		t.Error("original candidate was mutated")
	}
	if scored.Similarity() != 0.8 || scored.Score() != 0.86 {
		t.Errorf("unexpected scores %f %f", scored.Similarity(), scored.Score())
	}
}
