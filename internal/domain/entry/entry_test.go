package entry

import (
	"math"
	"strings"
	"testing"

	"github.com/kailas-cloud/hervoice/internal/domain/situation"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		fields  Fields
		wantErr bool
	}{
		{"valid", Fields{ID: "a", Transcript: "text"}, false},
		{"summary only", Fields{ID: "a", Summary: "sum"}, false},
		{"missing id", Fields{Transcript: "text"}, true},
		{"blank id", Fields{ID: "  ", Transcript: "text"}, true},
		{"no text", Fields{ID: "a"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.fields)
			if (err != nil) != tc.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNew_UnknownSituationBecomesNone(t *testing.T) {
	e, err := New(Fields{ID: "a", Summary: "s", Meta: Meta{Situation: "romance"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Meta().Situation != situation.None {
		t.Errorf("expected None, got %q", e.Meta().Situation)
	}
}

func TestNew_CopiesKeywords(t *testing.T) {
	kws := []string{"a", "b"}
	e, err := New(Fields{ID: "a", Summary: "s", Keywords: kws})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kws[0] = "changed"
	if e.Keywords()[0] != "a" {
		t.Errorf("entry keywords must not alias the input slice")
	}
}

func TestEmbeddingText(t *testing.T) {
	long := strings.Repeat("紧", 400)
	e, _ := New(Fields{ID: "a", Summary: "摘要", Transcript: long})

	got := e.EmbeddingText(300)
	want := "摘要 " + strings.Repeat("紧", 300)
	if got != want {
		t.Errorf("expected summary plus 300 runes, got %d runes", len([]rune(got)))
	}

	short, _ := New(Fields{ID: "b", Transcript: "only transcript"})
	if got := short.EmbeddingText(300); got != "only transcript" {
		t.Errorf("expected trimmed transcript, got %q", got)
	}
}

func TestGeo_Valid(t *testing.T) {
	tests := []struct {
		name string
		geo  Geo
		want bool
	}{
		{"shanghai", NewGeo(31.2304, 121.4737), true},
		{"unset", Geo{}, false},
		{"zero lat", NewGeo(0, 121.4), false},
		{"out of range", NewGeo(95, 10), false},
		{"nan", NewGeo(math.NaN(), 10), false},
	}
	for _, tc := range tests {
		if got := tc.geo.Valid(); got != tc.want {
			t.Errorf("%s: Valid() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
