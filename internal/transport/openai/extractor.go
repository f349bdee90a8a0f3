package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hervoice/internal/domain"
	"github.com/kailas-cloud/hervoice/internal/domain/query"
	"github.com/kailas-cloud/hervoice/internal/domain/situation"
	"github.com/kailas-cloud/hervoice/internal/metrics"
)

// DefaultChatModel is used when no model is configured.
const DefaultChatModel = "glm-4"

// DefaultTemperature keeps extraction close to deterministic.
const DefaultTemperature = 0.3

const extractionInstruction = `你是一个搜索助手。分析用户的输入，提取：
1. query_keywords：5-10个名词或名词短语（数组格式）
2. situation：first_try / career / identity / uncertain（如果没有则返回null）

要求：
- 不给建议
- 不输出价值判断
- query_keywords尽量贴近数据中已有keywords的风格

请以JSON格式返回：
{
  "query_keywords": ["关键词1", "关键词2"],
  "situation": "first_try" 或 null
}`

// KeywordExtractor asks a chat-completion model for query keywords and a situation label.
type KeywordExtractor struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewKeywordExtractor creates an OpenAI-compatible extractor.
func NewKeywordExtractor(cfg *Config) *KeywordExtractor {
	model := cfg.Model
	if model == "" {
		model = DefaultChatModel
	}
	temp := cfg.Temperature
	if temp == 0 {
		temp = DefaultTemperature
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeywordExtractor{
		client:      newClient(cfg),
		model:       model,
		temperature: temp,
		logger:      logger.Named("extractor"),
	}
}

// Extract issues one chat-completion call and normalizes the JSON reply.
// Errors wrap domain.ErrLLMProviderError or domain.ErrMalformedResponse.
// A malformed reply still carries the billed TotalTokens.
func (x *KeywordExtractor) Extract(ctx context.Context, message string) (query.Extraction, error) {
	req := openai.ChatCompletionRequest{
		Model: x.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractionInstruction},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		Temperature: x.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()

	resp, err := x.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(x.model, "error").Inc()
		return query.Extraction{}, parseAPIError(err, domain.ErrLLMProviderError)
	}
	metrics.LLMRequestDuration.WithLabelValues(x.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.TokensTotal.WithLabelValues("llm", "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.TokensTotal.WithLabelValues("llm", "total").Add(float64(resp.Usage.TotalTokens))
	}
	billed := query.Extraction{TotalTokens: resp.Usage.TotalTokens}

	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(x.model, "malformed").Inc()
		return billed, fmt.Errorf("no choices in response: %w", domain.ErrMalformedResponse)
	}

	ext, err := ParseExtraction(resp.Choices[0].Message.Content)
	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(x.model, "malformed").Inc()
		return billed, err
	}
	ext.TotalTokens = resp.Usage.TotalTokens

	metrics.LLMRequestsTotal.WithLabelValues(x.model, "success").Inc()

	x.logger.Debug("Keyword extraction completed",
		zap.String("model", x.model),
		zap.Duration("duration", duration),
		zap.Strings("keywords", ext.Keywords),
		zap.String("situation", string(ext.Situation)),
	)

	return ext, nil
}

// HealthCheck verifies API availability via ListModels.
func (x *KeywordExtractor) HealthCheck(ctx context.Context) error {
	if _, err := x.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// extractionPayload is the raw reply shape. query_keywords may be an array or a string.
type extractionPayload struct {
	QueryKeywords keywordList `json:"query_keywords"`
	Situation     *string     `json:"situation"`
}

// keywordList accepts ["a", "b"], "a b" or null.
type keywordList []string

func (k *keywordList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*k = nil
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*k = strings.Fields(s)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*k = items
	return nil
}

// ParseExtraction strips an optional markdown code fence and decodes the reply.
// A reply with no usable keywords is malformed.
func ParseExtraction(content string) (query.Extraction, error) {
	body := stripCodeFence(content)
	if body == "" {
		return query.Extraction{}, fmt.Errorf("empty content: %w", domain.ErrMalformedResponse)
	}

	var p extractionPayload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return query.Extraction{}, fmt.Errorf("decode extraction: %v: %w", err, domain.ErrMalformedResponse)
	}

	keywords := make([]string, 0, len(p.QueryKeywords))
	for _, kw := range p.QueryKeywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return query.Extraction{}, fmt.Errorf("no keywords: %w", domain.ErrMalformedResponse)
	}

	sit := situation.None
	if p.Situation != nil {
		sit = situation.Normalize(*p.Situation)
	}

	return query.Extraction{Keywords: keywords, Situation: sit}, nil
}

func stripCodeFence(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
