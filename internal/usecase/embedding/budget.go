package embedding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hervoice/internal/domain"
	"github.com/kailas-cloud/hervoice/internal/metrics"
)

// BudgetAction defines behavior when token budget is exceeded.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but allows the request.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject blocks the request.
	BudgetActionReject BudgetAction = "reject"
)

// persistTimeout bounds the write-behind of one Record call.
const persistTimeout = 2 * time.Second

// BudgetStore is the persistence interface for budget counters.
// Implementations must be idempotent (IncrBy can be called repeatedly).
type BudgetStore interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) (int64, error)
}

// window is one UTC budget period (a day or a month).
type window struct {
	name      string // "daily" | "monthly"; also the metric label and key segment
	layout    string // time layout of the key suffix
	truncate  func(time.Time) time.Time
	limit     int64 // 0 = unlimited
	used      int64
	start     time.Time
	keyPrefix string
}

func newWindow(name, layout string, truncate func(time.Time) time.Time, limit int64, provider string, now time.Time) window {
	return window{
		name:      name,
		layout:    layout,
		truncate:  truncate,
		limit:     limit,
		start:     truncate(now),
		keyPrefix: fmt.Sprintf("%sbudget:%s:%s:", domain.KeyPrefix, provider, name),
	}
}

// roll zeroes the counter when now belongs to a later period.
func (w *window) roll(now time.Time) {
	if cur := w.truncate(now); cur.After(w.start) {
		w.used = 0
		w.start = cur
	}
}

func (w *window) key(t time.Time) string {
	return w.keyPrefix + t.UTC().Format(w.layout)
}

func (w *window) exceeded() bool {
	return w.limit > 0 && w.used >= w.limit
}

// remaining returns tokens left, or -1 when unlimited.
func (w *window) remaining() int64 {
	if w.limit == 0 {
		return -1
	}
	return max(w.limit-w.used, 0)
}

// BudgetTracker is an in-memory token budget tracker with optional persistence.
// One tracker is shared by the embedding and keyword extraction calls.
// Check is in-memory only; Record updates memory first, then writes behind to the store.
type BudgetTracker struct {
	mu       sync.Mutex
	day      window
	month    window
	action   BudgetAction
	provider string
	store    BudgetStore
	now      func() time.Time
	logger   *zap.Logger
}

// NewBudgetTracker creates a budget tracker with the given limits.
// Zero limits are unlimited; counting still happens.
func NewBudgetTracker(
	provider string, dailyLimit, monthlyLimit int64,
	action BudgetAction, logger *zap.Logger,
) *BudgetTracker {
	if action == "" {
		action = BudgetActionWarn
	}
	b := &BudgetTracker{
		action:   action,
		provider: provider,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
	now := b.now()
	b.day = newWindow("daily", "2006-01-02", truncateToDay, dailyLimit, provider, now)
	b.month = newWindow("monthly", "2006-01", truncateToMonth, monthlyLimit, provider, now)
	return b
}

// WithStore attaches a persistence store and loads the counters of the current windows.
func (b *BudgetTracker) WithStore(ctx context.Context, store BudgetStore) *BudgetTracker {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store = store
	now := b.now()
	for _, w := range []*window{&b.day, &b.month} {
		val, err := store.Get(ctx, w.key(now))
		if err != nil {
			b.logger.Warn("Failed to load budget from store",
				zap.String("window", w.name), zap.Error(err))
			continue
		}
		w.used = val
	}

	b.logger.Info("Budget loaded from store",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.day.used),
		zap.Int64("monthly_used", b.month.used),
	)
	return b
}

// Check verifies the budget allows a new request. In-memory only (hot path).
func (b *BudgetTracker) Check(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rollLocked()
	if !b.day.exceeded() && !b.month.exceeded() {
		return nil
	}

	if b.action == BudgetActionReject {
		return domain.ErrBudgetExceeded
	}

	// action=warn: log but allow the request through
	b.logger.Warn("Token budget exceeded",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.day.used),
		zap.Int64("daily_limit", b.day.limit),
		zap.Int64("monthly_used", b.month.used),
		zap.Int64("monthly_limit", b.month.limit),
	)
	return nil
}

// Record registers consumed tokens after a remote call.
func (b *BudgetTracker) Record(tokens int64) {
	if tokens <= 0 {
		return
	}

	b.mu.Lock()
	b.rollLocked()
	now := b.now()
	b.day.used += tokens
	b.month.used += tokens
	keys := [2]string{b.day.key(now), b.month.key(now)}
	dayLeft, monthLeft := b.day.remaining(), b.month.remaining()
	store := b.store
	b.mu.Unlock()

	metrics.BudgetTokensRemaining.WithLabelValues(b.day.name).Set(float64(dayLeft))
	metrics.BudgetTokensRemaining.WithLabelValues(b.month.name).Set(float64(monthLeft))

	if store == nil {
		return
	}

	// Background context: the write must not depend on the request lifetime.
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	for _, key := range keys {
		if err := store.IncrBy(ctx, key, tokens); err != nil {
			b.logger.Warn("Failed to persist budget", zap.String("key", key), zap.Error(err))
		}
	}
}

// RemainingDaily returns tokens left in the daily budget (-1 if unlimited).
func (b *BudgetTracker) RemainingDaily() int64 {
	return b.read(func() int64 { return b.day.remaining() })
}

// RemainingMonthly returns tokens left in the monthly budget (-1 if unlimited).
func (b *BudgetTracker) RemainingMonthly() int64 {
	return b.read(func() int64 { return b.month.remaining() })
}

// DailyUsed returns tokens consumed today.
func (b *BudgetTracker) DailyUsed() int64 {
	return b.read(func() int64 { return b.day.used })
}

// MonthlyUsed returns tokens consumed this month.
func (b *BudgetTracker) MonthlyUsed() int64 {
	return b.read(func() int64 { return b.month.used })
}

// DailyLimit returns the daily token cap.
func (b *BudgetTracker) DailyLimit() int64 { return b.day.limit }

// MonthlyLimit returns the monthly token cap.
func (b *BudgetTracker) MonthlyLimit() int64 { return b.month.limit }

func (b *BudgetTracker) read(f func() int64) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollLocked()
	return f()
}

func (b *BudgetTracker) rollLocked() {
	now := b.now()
	b.day.roll(now)
	b.month.roll(now)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
