package domain

import (
	"context"
	"errors"
)

var (
	// ErrInvalidQuery signals a missing or blank query message.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrCorpusUnavailable signals that the corpus provider could not return entries.
	ErrCorpusUnavailable = errors.New("corpus unavailable")

	// ErrCredentialMissing signals that a remote provider has no usable API key.
	ErrCredentialMissing = errors.New("credential missing")
	// ErrBudgetExceeded signals an exhausted token budget.
	ErrBudgetExceeded = errors.New("token budget exceeded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrLLMProviderError signals a language-understanding provider failure.
	ErrLLMProviderError = errors.New("llm provider error")
	// ErrMalformedResponse signals a provider payload that could not be parsed.
	ErrMalformedResponse = errors.New("malformed provider response")
)

// PlaceholderAPIKey is the sample value shipped in example env files. It is treated as no key.
const PlaceholderAPIKey = "your-api-key-here"

// HasCredential reports whether apiKey can be used for a remote call.
func HasCredential(apiKey string) bool {
	return apiKey != "" && apiKey != PlaceholderAPIKey
}

// FallbackReason maps a remote-call error to a short label for logs and metrics.
func FallbackReason(err error) string {
	switch {
	case err == nil:
		return "empty"
	case errors.Is(err, ErrCredentialMissing):
		return "credential_missing"
	case errors.Is(err, ErrBudgetExceeded):
		return "budget_exceeded"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	default:
		return "provider_error"
	}
}
