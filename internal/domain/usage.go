package domain

import (
	"context"
	"sync"
)

type remoteUsageKey struct{}

// RemoteUsage collects remote-call accounting for a single request.
// The handler puts a pointer into the context before calling the pipeline;
// stages record into it concurrently; the handler reads it for response headers.
type RemoteUsage struct {
	mu              sync.Mutex
	embeddingTokens int
	llmTokens       int
	fallbacks       []string
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *RemoteUsage) {
	u := &RemoteUsage{}
	return context.WithValue(ctx, remoteUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *RemoteUsage {
	u, _ := ctx.Value(remoteUsageKey{}).(*RemoteUsage)
	return u
}

// AddEmbeddingTokens records tokens consumed by an embedding call.
func (u *RemoteUsage) AddEmbeddingTokens(n int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.embeddingTokens += n
	u.mu.Unlock()
}

// AddLLMTokens records tokens consumed by a language-understanding call.
func (u *RemoteUsage) AddLLMTokens(n int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.llmTokens += n
	u.mu.Unlock()
}

// MarkFallback records that a stage took its fallback path. Duplicates are dropped.
func (u *RemoteUsage) MarkFallback(stage string) {
	if u == nil {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, s := range u.fallbacks {
		if s == stage {
			return
		}
	}
	u.fallbacks = append(u.fallbacks, stage)
}

// EmbeddingTokens returns the embedding tokens recorded so far.
func (u *RemoteUsage) EmbeddingTokens() int {
	if u == nil {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.embeddingTokens
}

// LLMTokens returns the language-understanding tokens recorded so far.
func (u *RemoteUsage) LLMTokens() int {
	if u == nil {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.llmTokens
}

// Fallbacks returns the stages that degraded, in first-seen order.
func (u *RemoteUsage) Fallbacks() []string {
	if u == nil {
		return nil
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]string, len(u.fallbacks))
	copy(out, u.fallbacks)
	return out
}
