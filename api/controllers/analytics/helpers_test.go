package analytics

import (
	"context"

	"github.com/angelmondragon/orderinsights/internal/analytics/types"
)

type testAnalyticsService struct {
	last  *types.InsightsQuery
	calls int
	rng   *types.DatasetRange
	err   error
}

func (s *testAnalyticsService) record(q types.InsightsQuery) error {
	s.calls++
	s.last = &q
	return s.err
}

func (s *testAnalyticsService) Range(context.Context) (*types.DatasetRange, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.rng == nil {
		s.rng = &types.DatasetRange{}
	}
	return s.rng, nil
}

func (s *testAnalyticsService) CategoryReviews(_ context.Context, q types.InsightsQuery) (*types.Windowed[types.CategoryReviews], error) {
	if err := s.record(q); err != nil {
		return nil, err
	}
	return &types.Windowed[types.CategoryReviews]{}, nil
}

func (s *testAnalyticsService) CategoryRevenue(_ context.Context, q types.InsightsQuery) (*types.Windowed[types.CategoryRevenues], error) {
	if err := s.record(q); err != nil {
		return nil, err
	}
	return &types.Windowed[types.CategoryRevenues]{}, nil
}

func (s *testAnalyticsService) StateOrders(_ context.Context, q types.InsightsQuery) (*types.Windowed[types.StateOrders], error) {
	if err := s.record(q); err != nil {
		return nil, err
	}
	return &types.Windowed[types.StateOrders]{}, nil
}

func (s *testAnalyticsService) RFM(_ context.Context, q types.InsightsQuery) (*types.Windowed[types.RFMReport], error) {
	if err := s.record(q); err != nil {
		return nil, err
	}
	return &types.Windowed[types.RFMReport]{}, nil
}

func (s *testAnalyticsService) Report(_ context.Context, q types.InsightsQuery) (*types.Windowed[types.FullReport], error) {
	if err := s.record(q); err != nil {
		return nil, err
	}
	return &types.Windowed[types.FullReport]{}, nil
}
