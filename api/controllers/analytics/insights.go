package analytics

import (
	"context"
	"net/http"

	"github.com/angelmondragon/orderinsights/api/responses"
	"github.com/angelmondragon/orderinsights/internal/analytics"
	"github.com/angelmondragon/orderinsights/internal/analytics/types"
	"github.com/angelmondragon/orderinsights/pkg/enums"
	"github.com/angelmondragon/orderinsights/pkg/logger"
)

func DatasetRange(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		result, err := service.Range(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func CategoryReviews(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return insightsHandler(logg, enums.ReportKindCategoryReviews, service.CategoryReviews)
}

func CategoryRevenue(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return insightsHandler(logg, enums.ReportKindCategoryRevenue, service.CategoryRevenue)
}

func StateOrders(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return insightsHandler(logg, enums.ReportKindStateOrders, service.StateOrders)
}

func RFM(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return insightsHandler(logg, enums.ReportKindRFM, service.RFM)
}

// Report returns every summary table computed over one window.
func Report(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return insightsHandler(logg, enums.ReportKindFull, service.Report)
}

func insightsHandler[T any](
	logg *logger.Logger,
	kind enums.ReportKind,
	compute func(context.Context, types.InsightsQuery) (*types.Windowed[T], error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithReport(ctx, kind.String())
		}

		q, err := parseInsightsQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := compute(ctx, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
