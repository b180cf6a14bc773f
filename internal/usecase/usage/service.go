// Package usage reports embedding token-budget consumption.
package usage

import (
	"context"
	"time"
)

// Period selects the reporting window.
type Period string

const (
	// PeriodDay reports the current UTC day.
	PeriodDay Period = "day"
	// PeriodMonth reports the current UTC month.
	PeriodMonth Period = "month"
)

// Report is one period's budget snapshot. Limit -1 means unlimited.
type Report struct {
	Period    Period `json:"period"`
	StartMs   int64  `json:"start"`
	EndMs     int64  `json:"end"`
	Limit     int64  `json:"limit"`
	Used      int64  `json:"used"`
	Remaining int64  `json:"remaining"`
	Exhausted bool   `json:"exhausted"`
}

// Service handles usage reporting.
type Service struct {
	br BudgetReader
}

// New creates a Service. br can be nil (unlimited mode).
func New(br BudgetReader) *Service {
	return &Service{br: br}
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(_ context.Context, period Period) Report {
	now := time.Now().UTC()
	var start, end time.Time
	var limit, used, remaining int64

	switch period {
	case PeriodDay:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		end = start.Add(24 * time.Hour)
		if s.br != nil {
			limit = s.br.DailyLimit()
			used = s.br.DailyUsed()
			remaining = s.br.RemainingDaily()
		}
	default:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
		period = PeriodMonth
		if s.br != nil {
			limit = s.br.MonthlyLimit()
			used = s.br.MonthlyUsed()
			remaining = s.br.RemainingMonthly()
		}
	}

	if s.br == nil {
		remaining = -1
		limit = -1
	}

	return Report{
		Period:    period,
		StartMs:   start.UnixMilli(),
		EndMs:     end.UnixMilli(),
		Limit:     limit,
		Used:      used,
		Remaining: remaining,
		Exhausted: limit > 0 && remaining <= 0,
	}
}
