package db

import (
	"context"
	"time"
)

// Store is the database facade used by the composition root.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
// Get returns ErrKeyNotFound for a missing or expired key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// IncrByWithTTL adds val to the integer at key and returns the new value.
	// ttl is applied only when the key has no expiry yet, so a window counter
	// keeps the deadline set by its first increment.
	IncrByWithTTL(ctx context.Context, key string, val int64, ttl time.Duration) (int64, error)
}
