package chi

import (
	"time"

	"github.com/kailas-cloud/hervoice/internal/domain/entry"
	searchuc "github.com/kailas-cloud/hervoice/internal/usecase/search"
	usageuc "github.com/kailas-cloud/hervoice/internal/usecase/usage"
)

// ErrorCode is the machine-readable code of an error response.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest        ErrorCode = "bad_request"
	ErrorCodeValidationFailed  ErrorCode = "validation_failed"
	ErrorCodeUnauthorized      ErrorCode = "unauthorized"
	ErrorCodeNotFound          ErrorCode = "not_found"
	ErrorCodeCorpusUnavailable ErrorCode = "corpus_unavailable"
	ErrorCodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// LocationDTO is the free-text place of an entry.
type LocationDTO struct {
	Country  string `json:"country"`
	Province string `json:"province"`
	City     string `json:"city"`
}

// GeoDTO is an entry's coordinate pair.
type GeoDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// MetaDTO is an entry's structured tagging.
type MetaDTO struct {
	Situation string   `json:"situation"`
	Stage     string   `json:"stage"`
	Emotions  []string `json:"emotion"`
}

// EntryDTO is the public projection of a corpus entry. The transcript is
// never exposed; only the pre-written summary is.
type EntryDTO struct {
	ID        string      `json:"id"`
	Location  LocationDTO `json:"location"`
	Geo       *GeoDTO     `json:"geo"`
	VoiceMode string      `json:"voice_mode,omitempty"`
	Summary   string      `json:"ai_summary"`
	Keywords  []string    `json:"keywords"`
	Meta      MetaDTO     `json:"meta"`
	CreatedAt *time.Time  `json:"created_at,omitempty"`
}

// MatchDTO is a returned entry annotated with its per-query scores.
type MatchDTO struct {
	EntryDTO
	MatchedKeywords []string `json:"matchedKeywords"`
	Similarity      float64  `json:"similarity"`
}

// ChatResponse is the reply of POST /api/chatbot.
type ChatResponse struct {
	Response      string     `json:"response"`
	Entries       []MatchDTO `json:"entries"`
	QueryKeywords []string   `json:"queryKeywords"`
}

// ListResponse is the reply of GET /api/chatbot/all.
type ListResponse struct {
	Entries []EntryDTO `json:"entries"`
	Error   string     `json:"error,omitempty"`
}

// UsageResponse is the reply of GET /api/usage.
type UsageResponse struct {
	Period        string    `json:"period"`
	PeriodStartAt time.Time `json:"period_start_at"`
	PeriodEndAt   time.Time `json:"period_end_at"`
	TokensUsed    int64     `json:"tokens_used"`
	Budget        BudgetDTO `json:"budget"`
}

// BudgetDTO describes the token budget. -1 means unlimited.
type BudgetDTO struct {
	TokensLimit     int64 `json:"tokens_limit"`
	TokensRemaining int64 `json:"tokens_remaining"`
	IsExhausted     bool  `json:"is_exhausted"`
}

// HealthResponse is the reply of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func entryToDTO(e *entry.Entry) EntryDTO {
	loc := e.Location()
	meta := e.Meta()
	dto := EntryDTO{
		ID: e.ID(),
		Location: LocationDTO{
			Country:  loc.Country,
			Province: loc.Province,
			City:     loc.City,
		},
		VoiceMode: e.VoiceMode(),
		Summary:   e.Summary(),
		Keywords:  nonNil(e.Keywords()),
		Meta: MetaDTO{
			Situation: string(meta.Situation),
			Stage:     meta.Stage,
			Emotions:  nonNil(meta.Emotions),
		},
	}
	if g := e.Geo(); g.IsSet() {
		dto.Geo = &GeoDTO{Lat: g.Lat, Lon: g.Lon}
	}
	if t := e.CreatedAt(); !t.IsZero() {
		dto.CreatedAt = &t
	}
	return dto
}

// NewChatResponse projects a pipeline result onto the chat reply.
func NewChatResponse(res *searchuc.Result) ChatResponse {
	entries := make([]MatchDTO, len(res.Matches))
	for i := range res.Matches {
		m := &res.Matches[i]
		entries[i] = MatchDTO{
			EntryDTO:        entryToDTO(&m.Entry),
			MatchedKeywords: nonNil(m.MatchedKeywords),
			Similarity:      m.Similarity,
		}
	}
	return ChatResponse{
		Response:      res.Message,
		Entries:       entries,
		QueryKeywords: nonNil(res.QueryKeywords),
	}
}

// NewListResponse projects the corpus listing. An empty corpus carries an error message.
func NewListResponse(entries []entry.Entry) ListResponse {
	resp := ListResponse{Entries: make([]EntryDTO, len(entries))}
	for i := range entries {
		resp.Entries[i] = entryToDTO(&entries[i])
	}
	if len(entries) == 0 {
		resp.Error = noEntriesMessage
	}
	return resp
}

func usageToResponse(r *usageuc.Report) UsageResponse {
	return UsageResponse{
		Period:        string(r.Period),
		PeriodStartAt: r.PeriodStart,
		PeriodEndAt:   r.PeriodEnd,
		TokensUsed:    r.TokensUsed,
		Budget: BudgetDTO{
			TokensLimit:     r.Limit,
			TokensRemaining: r.Remaining,
			IsExhausted:     r.Exhausted,
		},
	}
}

// nonNil keeps JSON arrays as [] rather than null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
