package usage

import (
	"context"
	"fmt"
	"time"
)

// Period selects the budget window of a report.
type Period string

const (
	// PeriodDay is the current UTC day.
	PeriodDay Period = "day"
	// PeriodMonth is the current UTC month.
	PeriodMonth Period = "month"
)

// ParsePeriod maps a query parameter to a Period. Empty means day.
func ParsePeriod(raw string) (Period, error) {
	switch Period(raw) {
	case "", PeriodDay:
		return PeriodDay, nil
	case PeriodMonth:
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("unknown period %q", raw)
	}
}

// Report is a snapshot of the shared remote-token budget.
// Limit and Remaining are -1 when the window is unlimited.
type Report struct {
	Period      Period
	PeriodStart time.Time
	PeriodEnd   time.Time
	TokensUsed  int64
	Limit       int64
	Remaining   int64
	Exhausted   bool
}

// Service handles usage reporting.
type Service struct {
	br  BudgetReader
	now func() time.Time
}

// New creates a Service. br can be nil (unlimited mode).
func New(br BudgetReader) *Service {
	return &Service{br: br, now: time.Now}
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(_ context.Context, period Period) Report {
	now := s.now().UTC()
	r := Report{Period: period, Limit: -1, Remaining: -1}

	switch period {
	case PeriodMonth:
		r.PeriodStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		r.PeriodEnd = r.PeriodStart.AddDate(0, 1, 0)
		if s.br != nil {
			r.TokensUsed = s.br.MonthlyUsed()
			r.Remaining = s.br.RemainingMonthly()
			r.Limit = limitOrUnlimited(s.br.MonthlyLimit())
		}
	default:
		r.Period = PeriodDay
		r.PeriodStart = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		r.PeriodEnd = r.PeriodStart.Add(24 * time.Hour)
		if s.br != nil {
			r.TokensUsed = s.br.DailyUsed()
			r.Remaining = s.br.RemainingDaily()
			r.Limit = limitOrUnlimited(s.br.DailyLimit())
		}
	}

	r.Exhausted = r.Limit > 0 && r.Remaining == 0
	return r
}

func limitOrUnlimited(limit int64) int64 {
	if limit <= 0 {
		return -1
	}
	return limit
}
