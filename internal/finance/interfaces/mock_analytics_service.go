package interfaces

import (
	"context"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
)

type MockAnalyticsService struct {
	BucketResult   []domain.TimeBucket
	CategoryResult []domain.CategoryRollup
	TotalResult    domain.GrandTotal
	Skipped        int
	Err            error
	// Periods records every period passed to Summary.
	Periods []string
}

func (m *MockAnalyticsService) Summary(_ context.Context, _ string, period string) ([]domain.TimeBucket, int, error) {
	m.Periods = append(m.Periods, period)
	if _, err := domain.ParseGranularity(period); err != nil {
		return nil, 0, err
	}
	return m.BucketResult, m.Skipped, m.Err
}

func (m *MockAnalyticsService) Categories(context.Context, string) ([]domain.CategoryRollup, int, error) {
	return m.CategoryResult, m.Skipped, m.Err
}

func (m *MockAnalyticsService) Total(context.Context, string) (domain.GrandTotal, int, error) {
	return m.TotalResult, m.Skipped, m.Err
}
