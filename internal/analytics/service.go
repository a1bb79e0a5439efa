package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/orderinsights/internal/analytics/engine"
	"github.com/angelmondragon/orderinsights/internal/analytics/types"
	"github.com/angelmondragon/orderinsights/internal/dataset"
	"github.com/angelmondragon/orderinsights/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderinsights/pkg/errors"
)

// Service computes the dashboard summary tables over the loaded dataset.
type Service interface {
	// Range describes the loaded dataset and its default window.
	Range(ctx context.Context) (*types.DatasetRange, error)
	CategoryReviews(ctx context.Context, q types.InsightsQuery) (*types.Windowed[types.CategoryReviews], error)
	CategoryRevenue(ctx context.Context, q types.InsightsQuery) (*types.Windowed[types.CategoryRevenues], error)
	StateOrders(ctx context.Context, q types.InsightsQuery) (*types.Windowed[types.StateOrders], error)
	RFM(ctx context.Context, q types.InsightsQuery) (*types.Windowed[types.RFMReport], error)
	// Report computes every table over the same window.
	Report(ctx context.Context, q types.InsightsQuery) (*types.Windowed[types.FullReport], error)
}

// SnapshotProvider hands out the table currently being served.
type SnapshotProvider interface {
	Snapshot() (*dataset.Snapshot, error)
}

// ReportRecorder observes report computations.
type ReportRecorder interface {
	ObserveDuration(report string, duration time.Duration)
	IncFailure(report, code string)
}

type service struct {
	store   SnapshotProvider
	metrics ReportRecorder
}

// NewService builds an analytics service reading from store.
func NewService(store SnapshotProvider, metrics ReportRecorder) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("dataset store required")
	}
	return &service{store: store, metrics: metrics}, nil
}

func (s *service) Range(ctx context.Context) (*types.DatasetRange, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if snap.Rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNoData, "dataset is empty")
	}
	return &types.DatasetRange{
		Earliest:     snap.Earliest,
		Latest:       snap.Latest,
		EarliestDate: engine.DateOf(snap.Earliest),
		LatestDate:   engine.DateOf(snap.Latest),
		Rows:         snap.Rows,
		SkippedRows:  snap.Skipped,
		Source:       snap.Source,
		LoadedAt:     snap.LoadedAt,
	}, nil
}

func (s *service) CategoryReviews(ctx context.Context, q types.InsightsQuery) (out *types.Windowed[types.CategoryReviews], err error) {
	defer s.observe(enums.ReportKindCategoryReviews, time.Now(), &err)

	table, applied, err := s.window(q)
	if err != nil {
		return nil, err
	}
	report, err := categoryReviews(table, q.CategoryLimit)
	if err != nil {
		return nil, mapEngineError(err, applied)
	}
	return &types.Windowed[types.CategoryReviews]{Range: applied, Report: report}, nil
}

func (s *service) CategoryRevenue(ctx context.Context, q types.InsightsQuery) (out *types.Windowed[types.CategoryRevenues], err error) {
	defer s.observe(enums.ReportKindCategoryRevenue, time.Now(), &err)

	table, applied, err := s.window(q)
	if err != nil {
		return nil, err
	}
	report, err := categoryRevenue(table, q.CategoryLimit)
	if err != nil {
		return nil, mapEngineError(err, applied)
	}
	return &types.Windowed[types.CategoryRevenues]{Range: applied, Report: report}, nil
}

func (s *service) StateOrders(ctx context.Context, q types.InsightsQuery) (out *types.Windowed[types.StateOrders], err error) {
	defer s.observe(enums.ReportKindStateOrders, time.Now(), &err)

	table, applied, err := s.window(q)
	if err != nil {
		return nil, err
	}
	report, err := stateOrders(table, q.StateLimit)
	if err != nil {
		return nil, mapEngineError(err, applied)
	}
	return &types.Windowed[types.StateOrders]{Range: applied, Report: report}, nil
}

func (s *service) RFM(ctx context.Context, q types.InsightsQuery) (out *types.Windowed[types.RFMReport], err error) {
	defer s.observe(enums.ReportKindRFM, time.Now(), &err)

	table, applied, err := s.window(q)
	if err != nil {
		return nil, err
	}
	report, err := rfmReport(table, q.RFMLimit)
	if err != nil {
		return nil, mapEngineError(err, applied)
	}
	return &types.Windowed[types.RFMReport]{Range: applied, Report: report}, nil
}

func (s *service) Report(ctx context.Context, q types.InsightsQuery) (out *types.Windowed[types.FullReport], err error) {
	defer s.observe(enums.ReportKindFull, time.Now(), &err)

	table, applied, err := s.window(q)
	if err != nil {
		return nil, err
	}

	var report types.FullReport
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		report.Reviews, err = categoryReviews(table, q.CategoryLimit)
		return err
	})
	g.Go(func() error {
		var err error
		report.Revenue, err = categoryRevenue(table, q.CategoryLimit)
		return err
	})
	g.Go(func() error {
		var err error
		report.States, err = stateOrders(table, q.StateLimit)
		return err
	})
	g.Go(func() error {
		var err error
		report.RFM, err = rfmReport(table, q.RFMLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, mapEngineError(err, applied)
	}
	return &types.Windowed[types.FullReport]{Range: applied, Report: report}, nil
}

func (s *service) snapshot() (*dataset.Snapshot, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dataset not loaded")
	}
	return snap, nil
}

// window resolves the query bounds against the snapshot and filters it.
func (s *service) window(q types.InsightsQuery) (*engine.Table, types.AppliedRange, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, types.AppliedRange{}, err
	}

	applied := types.AppliedRange{From: snap.Earliest, To: snap.Latest}
	if q.From != nil {
		applied.From = q.From.UTC()
	}
	if q.To != nil {
		applied.To = q.To.UTC()
	}

	table, err := engine.FilterRange(snap.Table, applied.From, applied.To)
	if err != nil {
		return nil, applied, mapEngineError(err, applied)
	}
	applied.Rows = table.Len()
	return table, applied, nil
}

func (s *service) observe(kind enums.ReportKind, started time.Time, errp *error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveDuration(kind.String(), time.Since(started))
	if errp != nil && *errp != nil {
		code := pkgerrors.CodeInternal
		if typed := pkgerrors.As(*errp); typed != nil {
			code = typed.Code()
		}
		s.metrics.IncFailure(kind.String(), string(code))
	}
}

// mapEngineError turns engine sentinels into typed API errors.
func mapEngineError(err error, applied types.AppliedRange) error {
	details := map[string]any{
		"from": applied.From,
		"to":   applied.To,
	}
	switch {
	case errors.Is(err, engine.ErrInvalidRange):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "from must not be after to").WithDetails(details)
	case errors.Is(err, engine.ErrInvalidLimit):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "limit must be positive")
	case errors.Is(err, engine.ErrEmptyInput):
		return pkgerrors.Wrap(pkgerrors.CodeNoData, err, "no orders in the selected range").WithDetails(details)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "computing report")
	}
}

func orDefault(limit, fallback int) int {
	if limit == 0 {
		return fallback
	}
	return limit
}

func categoryReviews(table *engine.Table, limit int) (types.CategoryReviews, error) {
	limit = orDefault(limit, engine.DefaultCategoryLimit)
	rows := engine.ReviewByCategory(table)
	best, err := engine.TopCategoriesByReview(rows, limit)
	if err != nil {
		return types.CategoryReviews{}, err
	}
	worst, err := engine.BottomCategoriesByReview(rows, limit)
	if err != nil {
		return types.CategoryReviews{}, err
	}
	return types.CategoryReviews{Categories: rows, Best: best, Worst: worst}, nil
}

func categoryRevenue(table *engine.Table, limit int) (types.CategoryRevenues, error) {
	limit = orDefault(limit, engine.DefaultCategoryLimit)
	rows := engine.RevenueByCategory(table)
	highest, err := engine.TopCategoriesByRevenue(rows, limit)
	if err != nil {
		return types.CategoryRevenues{}, err
	}
	lowest, err := engine.BottomCategoriesByRevenue(rows, limit)
	if err != nil {
		return types.CategoryRevenues{}, err
	}
	return types.CategoryRevenues{Categories: rows, Highest: highest, Lowest: lowest}, nil
}

func stateOrders(table *engine.Table, limit int) (types.StateOrders, error) {
	states, err := engine.TopOrdersByState(table, orDefault(limit, engine.DefaultStateLimit))
	if err != nil {
		return types.StateOrders{}, err
	}
	return types.StateOrders{States: states}, nil
}

func rfmReport(table *engine.Table, limit int) (types.RFMReport, error) {
	anchor, err := engine.AnchorDate(table)
	if err != nil {
		return types.RFMReport{}, err
	}
	rows, err := engine.ComputeRFM(table)
	if err != nil {
		return types.RFMReport{}, err
	}
	summary, err := engine.SummarizeRFM(rows)
	if err != nil {
		return types.RFMReport{}, err
	}
	ranking, err := engine.RankRFM(rows, orDefault(limit, engine.DefaultRFMLimit))
	if err != nil {
		return types.RFMReport{}, err
	}
	return types.RFMReport{AnchorDate: anchor, Customers: rows, Summary: summary, Ranking: ranking}, nil
}
