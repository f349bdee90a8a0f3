package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hervoice/internal/domain"
	"github.com/kailas-cloud/hervoice/internal/domain/entry"
	"github.com/kailas-cloud/hervoice/internal/logger"
	healthuc "github.com/kailas-cloud/hervoice/internal/usecase/health"
	searchuc "github.com/kailas-cloud/hervoice/internal/usecase/search"
	usageuc "github.com/kailas-cloud/hervoice/internal/usecase/usage"
)

// maxBodyBytes caps the chat request body.
const maxBodyBytes = 64 << 10

const noEntriesMessage = "no entries found"

// Searcher runs the retrieval pipeline.
type Searcher interface {
	Search(ctx context.Context, message string) (searchuc.Result, error)
}

// Lister lists the full corpus.
type Lister interface {
	List(ctx context.Context) ([]entry.Entry, error)
}

// UsageReporter builds token budget reports.
type UsageReporter interface {
	GetReport(ctx context.Context, period usageuc.Period) usageuc.Report
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers of the API.
type Server struct {
	search        Searcher
	catalog       Lister
	usage         UsageReporter
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search Searcher,
	catalog Lister,
	usage UsageReporter,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:  search,
		catalog: catalog,
		usage:   usage,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrCorpusUnavailable, http.StatusServiceUnavailable, ErrorCodeCorpusUnavailable),
	}
	return s
}

// Chat handles POST /api/chatbot.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	message, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.search.Search(ctx, message)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setUsageHeaders(w, usage)
	writeJSON(w, http.StatusOK, NewChatResponse(&res))
}

// setUsageHeaders reports remote token usage and degraded stages of one request.
func setUsageHeaders(w http.ResponseWriter, usage *domain.RemoteUsage) {
	if n := usage.EmbeddingTokens(); n > 0 {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(n))
	}
	if n := usage.LLMTokens(); n > 0 {
		w.Header().Set("X-LLM-Tokens", strconv.Itoa(n))
	}
	if fb := usage.Fallbacks(); len(fb) > 0 {
		w.Header().Set("X-Degraded-Stages", strings.Join(fb, ","))
	}
}

// decodeChatRequest validates the body shape before the pipeline sees it:
// it must be a JSON object whose "message" is a string.
func decodeChatRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "request body must be a JSON object")
		return "", false
	}

	raw, ok := body["message"]
	if !ok || string(raw) == "null" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "message is required")
		return "", false
	}

	var message string
	if err := json.Unmarshal(raw, &message); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "message must be a string")
		return "", false
	}
	return message, true
}

// ListAll handles GET /api/chatbot/all.
func (s *Server) ListAll(w http.ResponseWriter, r *http.Request) {
	entries, err := s.catalog.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, NewListResponse(entries))
}

// GetUsage handles GET /api/usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period, err := usageuc.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "period must be day or month")
		return
	}

	report := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, usageToResponse(&report))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// NotFound handles unknown routes.
func (s *Server) NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, ErrorCodeNotFound, "route not found")
}

// MethodNotAllowed handles known routes called with the wrong method.
func (s *Server) MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrCorpusUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
