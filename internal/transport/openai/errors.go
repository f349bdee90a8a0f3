package openai

import (
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// parseAPIError extracts a human-readable error from the API response and wraps it with kind.
func parseAPIError(err error, kind error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("API error %d: %s: %w", reqErr.HTTPStatusCode, detail, kind)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, kind)
	}

	return fmt.Errorf("request failed: %v: %w", err, kind)
}

// errorType is the metrics label for a failed call.
func errorType(err error) string {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return "http_error"
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return "api_error"
	}
	return "transport_error"
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
