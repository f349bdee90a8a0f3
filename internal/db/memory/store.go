// Package memory is an in-process db.Store. Values live for the process lifetime
// unless a TTL is set; nothing is persisted.
package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/kailas-cloud/hervoice/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type item struct {
	value    []byte
	expireAt time.Time // zero = no expiry
}

// Store is a mutex-guarded map.
type Store struct {
	mu    sync.RWMutex
	items map[string]item
	now   func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{items: make(map[string]item), now: time.Now}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close drops all keys.
func (s *Store) Close() {
	s.mu.Lock()
	s.items = make(map[string]item)
	s.mu.Unlock()
}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(context.Context, time.Duration) error { return nil }

// Len returns the number of live keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	n := 0
	for _, it := range s.items {
		if !expired(it, now) {
			n++
		}
	}
	return n
}

// Get retrieves a copy of the value stored at key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok || expired(it, s.now()) {
		return nil, db.ErrKeyNotFound
	}
	out := make([]byte, len(it.value))
	copy(out, it.value)
	return out, nil
}

// Set stores a value without expiry.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.put(key, value, time.Time{})
	return nil
}

// SetWithTTL stores a value that expires after ttl.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.put(key, value, s.now().Add(ttl))
	return nil
}

// IncrByWithTTL increments the integer stored at key, creating it at zero.
// A key without expiry gets ttl; an existing deadline is kept.
func (s *Store) IncrByWithTTL(_ context.Context, key string, val int64, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	it, ok := s.items[key]
	if !ok || expired(it, now) {
		it = item{}
	}

	var cur int64
	if it.value != nil {
		n, err := strconv.ParseInt(string(it.value), 10, 64)
		if err != nil {
			return 0, &db.Error{Op: db.OpIncrBy, Err: db.ErrNotInteger}
		}
		cur = n
	}

	cur += val
	it.value = []byte(strconv.FormatInt(cur, 10))
	if it.expireAt.IsZero() && ttl > 0 {
		it.expireAt = now.Add(ttl)
	}
	s.items[key] = it
	return cur, nil
}

func (s *Store) put(key string, value []byte, expireAt time.Time) {
	v := make([]byte, len(value))
	copy(v, value)
	s.mu.Lock()
	s.items[key] = item{value: v, expireAt: expireAt}
	s.mu.Unlock()
}

func expired(it item, now time.Time) bool {
	return !it.expireAt.IsZero() && !now.Before(it.expireAt)
}
