package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestHasCredential(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"", false},
		{PlaceholderAPIKey, false},
		{"sk-live", true},
	}
	for _, tt := range tests {
		if got := HasCredential(tt.key); got != tt.want {
			t.Errorf("HasCredential(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestFallbackReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "empty"},
		{fmt.Errorf("embed: %w", ErrCredentialMissing), "credential_missing"},
		{fmt.Errorf("budget check: %w", ErrBudgetExceeded), "budget_exceeded"},
		{fmt.Errorf("call: %w", context.DeadlineExceeded), "timeout"},
		{context.Canceled, "canceled"},
		{ErrMalformedResponse, "malformed"},
		{errors.New("boom"), "provider_error"},
	}
	for _, tt := range tests {
		if got := FallbackReason(tt.err); got != tt.want {
			t.Errorf("FallbackReason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
