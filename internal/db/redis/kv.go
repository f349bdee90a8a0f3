package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/hervoice/internal/db"
)

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Get().Key(key).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// Set stores a value at the given key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	cmd := s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// SetWithTTL stores a value with an expiration.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cmd := s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Ex(ttl).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// IncrByWithTTL pipelines INCRBY and EXPIRE NX in one round trip.
// EXPIRE NX needs Redis 7 / Valkey 7.2 or newer.
func (s *Store) IncrByWithTTL(ctx context.Context, key string, val int64, ttl time.Duration) (int64, error) {
	cmds := make(rueidis.Commands, 0, 2)
	cmds = append(cmds, s.b().Incrby().Key(key).Increment(val).Build())
	if ttl > 0 {
		cmds = append(cmds, s.b().Expire().Key(key).Seconds(int64(ttl.Seconds())).Nx().Build())
	}

	res := s.client.DoMulti(ctx, cmds...)
	n, err := res[0].AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpIncrBy, Err: err}
	}
	if len(res) > 1 {
		if err := res[1].Error(); err != nil {
			return n, &db.Error{Op: db.OpExpire, Err: err}
		}
	}
	return n, nil
}
