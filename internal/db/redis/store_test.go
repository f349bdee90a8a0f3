package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/hervoice/internal/db"
)

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.Ping(context.Background())
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpPing {
		t.Fatalf("expected db.Error with op PING, got %v", err)
	}
}

func TestGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "mykey")).
		Return(mock.Result(mock.RedisBlobString("value")))

	s := NewStoreForTest(c)
	data, err := s.Get(context.Background(), "mykey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "value" {
		t.Errorf("expected 'value', got %q", data)
	}
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "mykey")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "mykey")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestGet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "mykey")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "mykey")
	if err == nil || errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected wrapped DeadlineExceeded, got %v", err)
	}
}

func TestSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "mykey", "myvalue")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.Set(context.Background(), "mykey", []byte("myvalue")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetWithTTL_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SET" && cmd[1] == "mykey" && cmd[2] == "myvalue" && cmd[3] == "EX"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.SetWithTTL(context.Background(), "mykey", []byte("myvalue"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIncrByWithTTL_Pipelined(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(),
			mock.Match("INCRBY", "counter", "5"),
			mock.Match("EXPIRE", "counter", "300", "NX"),
		).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(12)),
			mock.Result(mock.RedisInt64(0)),
		})

	s := NewStoreForTest(c)
	n, err := s.IncrByWithTTL(context.Background(), "counter", 5, 5*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 12 {
		t.Errorf("expected 12, got %d", n)
	}
}

func TestIncrByWithTTL_NoTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), mock.Match("INCRBY", "counter", "1")).
		Return([]rueidis.RedisResult{mock.Result(mock.RedisInt64(1))})

	s := NewStoreForTest(c)
	if _, err := s.IncrByWithTTL(context.Background(), "counter", 1, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIncrByWithTTL_Errors(t *testing.T) {
	tests := []struct {
		name    string
		results []rueidis.RedisResult
		wantOp  string
	}{
		{
			name: "incr fails",
			results: []rueidis.RedisResult{
				mock.ErrorResult(errors.New("WRONGTYPE")),
				mock.ErrorResult(errors.New("WRONGTYPE")),
			},
			wantOp: db.OpIncrBy,
		},
		{
			name: "expire fails",
			results: []rueidis.RedisResult{
				mock.Result(mock.RedisInt64(3)),
				mock.ErrorResult(errors.New("ERR syntax error")),
			},
			wantOp: db.OpExpire,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)
			c.EXPECT().DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.results)

			s := NewStoreForTest(c)
			_, err := s.IncrByWithTTL(context.Background(), "k", 1, time.Hour)
			var dbErr *db.Error
			if !errors.As(err, &dbErr) || dbErr.Op != tt.wantOp {
				t.Fatalf("expected db.Error with op %s, got %v", tt.wantOp, err)
			}
		})
	}
}
