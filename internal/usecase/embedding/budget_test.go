package embedding

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hervoice/internal/domain"
)

func TestBudgetTracker_Check(t *testing.T) {
	tests := []struct {
		name    string
		daily   int64
		monthly int64
		action  BudgetAction
		record  int64
		wantErr error
	}{
		{"daily exceeded rejects", 100, 0, BudgetActionReject, 100, domain.ErrBudgetExceeded},
		{"monthly exceeded rejects", 0, 500, BudgetActionReject, 500, domain.ErrBudgetExceeded},
		{"warn lets request through", 100, 0, BudgetActionWarn, 200, nil},
		{"zero limits are unlimited", 0, 0, BudgetActionReject, 999999999, nil},
		{"below limit allows", 1000, 10000, BudgetActionReject, 500, nil},
		{"empty action defaults to warn", 10, 0, "", 50, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bt := NewBudgetTracker("remote", tt.daily, tt.monthly, tt.action, zap.NewNop())
			bt.Record(tt.record)

			err := bt.Check(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Check() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBudgetTracker_Remaining(t *testing.T) {
	bt := NewBudgetTracker("remote", 1000, 10000, BudgetActionWarn, zap.NewNop())
	bt.Record(300)

	if got := bt.RemainingDaily(); got != 700 {
		t.Errorf("RemainingDaily() = %d, want 700", got)
	}
	if got := bt.RemainingMonthly(); got != 9700 {
		t.Errorf("RemainingMonthly() = %d, want 9700", got)
	}

	bt.Record(5000)
	if got := bt.RemainingDaily(); got != 0 {
		t.Errorf("RemainingDaily() after overrun = %d, want 0", got)
	}
}

func TestBudgetTracker_RemainingUnlimited(t *testing.T) {
	bt := NewBudgetTracker("remote", 0, 0, BudgetActionWarn, zap.NewNop())

	if got := bt.RemainingDaily(); got != -1 {
		t.Errorf("RemainingDaily() = %d, want -1", got)
	}
	if got := bt.RemainingMonthly(); got != -1 {
		t.Errorf("RemainingMonthly() = %d, want -1", got)
	}
}

func TestBudgetTracker_Keys(t *testing.T) {
	bt := NewBudgetTracker("remote", 0, 0, BudgetActionWarn, zap.NewNop())
	at := time.Date(2026, time.March, 7, 15, 4, 5, 0, time.UTC)

	if got, want := bt.day.key(at), "hervoice:budget:remote:daily:2026-03-07"; got != want {
		t.Errorf("dailyKey = %q, want %q", got, want)
	}
	if got, want := bt.month.key(at), "hervoice:budget:remote:monthly:2026-03"; got != want {
		t.Errorf("monthlyKey = %q, want %q", got, want)
	}
}

type fakeBudgetStore struct {
	mu     sync.Mutex
	data   map[string]int64
	getErr error
	incErr error
}

func newFakeBudgetStore() *fakeBudgetStore {
	return &fakeBudgetStore{data: make(map[string]int64)}
}

func (f *fakeBudgetStore) IncrBy(_ context.Context, key string, val int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.incErr != nil {
		return f.incErr
	}
	f.data[key] += val
	return nil
}

func (f *fakeBudgetStore) Get(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return 0, f.getErr
	}
	return f.data[key], nil
}

func (f *fakeBudgetStore) value(key string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[key]
}

func TestBudgetTracker_WithStore_LoadsCounters(t *testing.T) {
	store := newFakeBudgetStore()
	bt := NewBudgetTracker("remote", 1000, 10000, BudgetActionReject, zap.NewNop())
	store.data[bt.day.key(bt.day.start)] = 300
	store.data[bt.month.key(bt.month.start)] = 5000

	bt.WithStore(context.Background(), store)

	if got := bt.DailyUsed(); got != 300 {
		t.Errorf("DailyUsed() = %d, want 300", got)
	}
	if got := bt.MonthlyUsed(); got != 5000 {
		t.Errorf("MonthlyUsed() = %d, want 5000", got)
	}
}

func TestBudgetTracker_WithStore_LoadErrorStartsAtZero(t *testing.T) {
	store := newFakeBudgetStore()
	store.getErr = errors.New("connection refused")

	bt := NewBudgetTracker("remote", 1000, 10000, BudgetActionReject, zap.NewNop())
	bt.WithStore(context.Background(), store)

	if bt.DailyUsed() != 0 || bt.MonthlyUsed() != 0 {
		t.Errorf("expected zero counters, got daily=%d monthly=%d", bt.DailyUsed(), bt.MonthlyUsed())
	}
}

func TestBudgetTracker_Record_WritesBehind(t *testing.T) {
	store := newFakeBudgetStore()
	bt := NewBudgetTracker("remote", 10000, 100000, BudgetActionWarn, zap.NewNop())
	bt.WithStore(context.Background(), store)

	bt.Record(100)
	bt.Record(200)

	if got := store.value(bt.day.key(bt.day.start)); got != 300 {
		t.Errorf("stored daily = %d, want 300", got)
	}
	if got := store.value(bt.month.key(bt.month.start)); got != 300 {
		t.Errorf("stored monthly = %d, want 300", got)
	}
}

func TestBudgetTracker_Record_StoreErrorKeepsMemoryCounters(t *testing.T) {
	store := newFakeBudgetStore()
	bt := NewBudgetTracker("remote", 100, 0, BudgetActionReject, zap.NewNop())
	bt.WithStore(context.Background(), store)
	store.incErr = errors.New("write timeout")

	bt.Record(100)

	if bt.DailyUsed() != 100 {
		t.Errorf("DailyUsed() = %d, want 100", bt.DailyUsed())
	}
	if err := bt.Check(context.Background()); !errors.Is(err, domain.ErrBudgetExceeded) {
		t.Fatalf("Check() = %v, want ErrBudgetExceeded", err)
	}
}

func TestBudgetTracker_RollsOverAtUTCMidnight(t *testing.T) {
	now := time.Date(2026, time.January, 31, 23, 59, 0, 0, time.UTC)
	bt := NewBudgetTracker("remote", 100, 1000, BudgetActionReject, zap.NewNop())
	bt.now = func() time.Time { return now }
	bt.day.start, bt.month.start = truncateToDay(now), truncateToMonth(now)

	bt.Record(100)
	if err := bt.Check(context.Background()); !errors.Is(err, domain.ErrBudgetExceeded) {
		t.Fatalf("Check() = %v, want ErrBudgetExceeded", err)
	}

	now = now.Add(2 * time.Minute)
	if err := bt.Check(context.Background()); err != nil {
		t.Fatalf("Check() after rollover = %v", err)
	}
	if bt.DailyUsed() != 0 || bt.MonthlyUsed() != 0 {
		t.Errorf("counters not reset: daily=%d monthly=%d", bt.DailyUsed(), bt.MonthlyUsed())
	}
}

func TestBudgetTracker_RecordIgnoresNonPositive(t *testing.T) {
	store := newFakeBudgetStore()
	bt := NewBudgetTracker("remote", 10, 0, BudgetActionWarn, zap.NewNop())
	bt.WithStore(context.Background(), store)

	bt.Record(0)
	bt.Record(-5)

	if bt.DailyUsed() != 0 || len(store.data) != 0 {
		t.Errorf("non-positive tokens must be ignored, used=%d stored=%v", bt.DailyUsed(), store.data)
	}
}
