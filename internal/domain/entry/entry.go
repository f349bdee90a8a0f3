package entry

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kailas-cloud/hervoice/internal/domain/situation"
)

// Location is a free-text place description.
type Location struct {
	Country  string
	Province string
	City     string
}

// Geo is an optional coordinate pair.
type Geo struct {
	Lat float64
	Lon float64
	set bool
}

// NewGeo creates a coordinate pair.
func NewGeo(lat, lon float64) Geo {
	return Geo{Lat: lat, Lon: lon, set: true}
}

// IsSet reports whether coordinates were provided at all.
func (g Geo) IsSet() bool { return g.set }

// Valid reports whether the coordinates can be placed on a map.
// Zero values are rejected, as the source data uses 0 for "unknown".
func (g Geo) Valid() bool {
	if !g.set {
		return false
	}
	if math.IsNaN(g.Lat) || math.IsNaN(g.Lon) {
		return false
	}
	if g.Lat == 0 || g.Lon == 0 {
		return false
	}
	return g.Lat >= -90 && g.Lat <= 90 && g.Lon >= -180 && g.Lon <= 180
}

// Meta is the structured tagging of a story.
type Meta struct {
	Situation situation.Situation
	Stage     string
	Emotions  []string
}

// Entry is a single story in the corpus (immutable value object).
type Entry struct {
	id         string
	location   Location
	geo        Geo
	voiceMode  string
	transcript string
	summary    string
	keywords   []string
	meta       Meta
	createdAt  time.Time
}

// Fields groups the constructor inputs.
type Fields struct {
	ID         string
	Location   Location
	Geo        Geo
	VoiceMode  string
	Transcript string
	Summary    string
	Keywords   []string
	Meta       Meta
	CreatedAt  time.Time
}

// New validates and creates an Entry.
// ID is required; at least one of transcript or summary must be non-empty.
// An unrecognized situation is kept as None rather than rejected.
func New(f Fields) (Entry, error) {
	if strings.TrimSpace(f.ID) == "" {
		return Entry{}, fmt.Errorf("entry ID is required")
	}
	if strings.TrimSpace(f.Transcript) == "" && strings.TrimSpace(f.Summary) == "" {
		return Entry{}, fmt.Errorf("entry %s: transcript or summary is required", f.ID)
	}

	meta := f.Meta
	if !meta.Situation.IsValid() {
		meta.Situation = situation.None
	}
	meta.Emotions = cloneStrings(meta.Emotions)

	return Entry{
		id:         f.ID,
		location:   f.Location,
		geo:        f.Geo,
		voiceMode:  f.VoiceMode,
		transcript: f.Transcript,
		summary:    f.Summary,
		keywords:   cloneStrings(f.Keywords),
		meta:       meta,
		createdAt:  f.CreatedAt,
	}, nil
}

// ID returns the entry identifier.
func (e *Entry) ID() string { return e.id }

// Location returns the free-text location.
func (e *Entry) Location() Location { return e.location }

// Geo returns the coordinates (may be unset or invalid).
func (e *Entry) Geo() Geo { return e.geo }

// VoiceMode returns how the recording was published (original or masked).
func (e *Entry) VoiceMode() string { return e.voiceMode }

// Transcript returns the full narrative text.
func (e *Entry) Transcript() string { return e.transcript }

// Summary returns the pre-written semantic summary.
func (e *Entry) Summary() string { return e.summary }

// Keywords returns the entry keywords.
func (e *Entry) Keywords() []string { return e.keywords }

// Meta returns situation, stage and emotions.
func (e *Entry) Meta() Meta { return e.meta }

// CreatedAt returns the publication time (zero if unknown).
func (e *Entry) CreatedAt() time.Time { return e.createdAt }

// EmbeddingText is the representation used for semantic comparison:
// summary followed by the first EntryTranscriptPrefix characters of the transcript.
func (e *Entry) EmbeddingText(transcriptPrefix int) string {
	t := e.transcript
	if r := []rune(t); len(r) > transcriptPrefix {
		t = string(r[:transcriptPrefix])
	}
	return strings.TrimSpace(e.summary + " " + t)
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
