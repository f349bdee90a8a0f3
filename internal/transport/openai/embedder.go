package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hervoice/internal/domain"
	"github.com/kailas-cloud/hervoice/internal/metrics"
)

// DefaultEmbeddingModel is used when no model is configured.
const DefaultEmbeddingModel = "text-embedding-3-small"

// Embedder is an embedding provider using the OpenAI-compatible API.
type Embedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	logger     *zap.Logger
}

// Config holds remote provider settings shared by the embedder and the extractor.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Dimensions  int
	Temperature float32
	Logger      *zap.Logger
}

func newClient(cfg *Config) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	model := cfg.Model
	if model == "" {
		model = DefaultEmbeddingModel
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Embedder{
		client:     newClient(cfg),
		model:      openai.EmbeddingModel(model),
		dimensions: cfg.Dimensions,
		logger:     logger.Named("embedder"),
	}
}

// Embed implements domain.Embedder with a single request and no retries.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	model := string(e.model)
	start := time.Now()

	resp, err := e.client.CreateEmbeddings(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(model, errorType(err)).Inc()
		return domain.EmbeddingResult{}, parseAPIError(err, domain.ErrEmbeddingProviderError)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(model, "empty_response").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrMalformedResponse)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(model).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.TokensTotal.WithLabelValues("embedding", "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.TokensTotal.WithLabelValues("embedding", "total").Add(float64(resp.Usage.TotalTokens))
	}

	e.logger.Debug("Embedding request completed",
		zap.String("model", model),
		zap.Duration("duration", duration),
		zap.Int("dimensions", len(resp.Data[0].Embedding)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
