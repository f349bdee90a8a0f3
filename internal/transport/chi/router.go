package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hervoice/internal/metrics"
)

// RouterConfig carries the HTTP-edge settings of the router.
type RouterConfig struct {
	APIKeys        []string
	AllowedOrigins []string
}

// NewRouter mounts the API handlers behind recovery, request id, access log,
// CORS, auth and metrics middleware.
func NewRouter(s *Server, cfg RouterConfig, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(log))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(log))
	r.Use(corsHandler(cfg.AllowedOrigins))
	r.Use(BearerAuthMiddleware(cfg.APIKeys))
	r.Use(metrics.Middleware())

	r.Route("/api", func(r chi.Router) {
		r.Post("/chatbot", s.Chat)
		r.Get("/chatbot/all", s.ListAll)
		r.Get("/usage", s.GetUsage)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.NotFound(s.NotFound)
	r.MethodNotAllowed(s.MethodNotAllowed)
	return r
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID", "X-Embedding-Tokens", "X-LLM-Tokens", "X-Degraded-Stages"},
	}).Handler
}
