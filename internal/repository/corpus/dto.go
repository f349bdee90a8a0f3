package corpus

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/hervoice/internal/domain/entry"
	"github.com/kailas-cloud/hervoice/internal/domain/situation"
)

// entryRow is the on-disk JSON shape of a corpus entry.
type entryRow struct {
	ID         string      `json:"id"`
	Location   locationRow `json:"location"`
	Geo        *geoRow     `json:"geo"`
	VoiceMode  string      `json:"voice_mode"`
	Transcript string      `json:"transcript"`
	Summary    string      `json:"ai_summary"`
	Keywords   []string    `json:"keywords"`
	Meta       metaRow     `json:"meta"`
	CreatedAt  string      `json:"created_at"`
}

type locationRow struct {
	Country  string `json:"country"`
	Province string `json:"province"`
	City     string `json:"city"`
}

type geoRow struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type metaRow struct {
	Situation string   `json:"situation"`
	Stage     string   `json:"stage"`
	Emotions  []string `json:"emotion"`
}

var createdAtLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// toEntry hydrates a domain Entry. Unknown situations become situation.None;
// a missing geo or a geo with a missing coordinate is kept unset.
func (r *entryRow) toEntry() (entry.Entry, error) {
	var geo entry.Geo
	if r.Geo != nil && r.Geo.Lat != nil && r.Geo.Lon != nil {
		geo = entry.NewGeo(*r.Geo.Lat, *r.Geo.Lon)
	}

	var createdAt time.Time
	if r.CreatedAt != "" {
		t, err := parseCreatedAt(r.CreatedAt)
		if err != nil {
			return entry.Entry{}, fmt.Errorf("entry %s: %w", r.ID, err)
		}
		createdAt = t
	}

	e, err := entry.New(entry.Fields{
		ID: r.ID,
		Location: entry.Location{
			Country:  r.Location.Country,
			Province: r.Location.Province,
			City:     r.Location.City,
		},
		Geo:        geo,
		VoiceMode:  r.VoiceMode,
		Transcript: r.Transcript,
		Summary:    r.Summary,
		Keywords:   r.Keywords,
		Meta: entry.Meta{
			Situation: situation.Normalize(r.Meta.Situation),
			Stage:     r.Meta.Stage,
			Emotions:  r.Meta.Emotions,
		},
		CreatedAt: createdAt,
	})
	if err != nil {
		return entry.Entry{}, fmt.Errorf("build entry: %w", err)
	}
	return e, nil
}

func parseCreatedAt(raw string) (time.Time, error) {
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid created_at %q", raw)
}
