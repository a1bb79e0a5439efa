package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/orderinsights/api/controllers"
	insightscontrollers "github.com/angelmondragon/orderinsights/api/controllers/analytics"
	"github.com/angelmondragon/orderinsights/api/middleware"
	"github.com/angelmondragon/orderinsights/internal/analytics"
	"github.com/angelmondragon/orderinsights/internal/dataset"
	"github.com/angelmondragon/orderinsights/pkg/config"
	"github.com/angelmondragon/orderinsights/pkg/logger"
	pkgredis "github.com/angelmondragon/orderinsights/pkg/redis"
)

// DatasetStore is the part of dataset.Store the HTTP layer touches.
type DatasetStore interface {
	Ready(ctx context.Context) error
	Reload(ctx context.Context) (*dataset.Snapshot, error)
}

// RedisStore backs rate limiting and reload replay. Optional.
type RedisStore interface {
	pkgredis.IdempotencyStore
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Params wires the router. Redis and Gatherer may be nil.
type Params struct {
	Config    *config.Config
	Logger    *logger.Logger
	Store     DatasetStore
	Analytics analytics.Service
	Redis     RedisStore
	Gatherer  prometheus.Gatherer
	Readiness []controllers.Dependency
}

func NewRouter(params Params) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, controllers.PingFunc(params.Store.Ready), params.Readiness...))
	})

	if params.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Gatherer, promhttp.HandlerOpts{}))
	}

	var limiterStore middleware.RateLimiterStore
	var idempotencyStore pkgredis.IdempotencyStore
	if params.Redis != nil {
		limiterStore = params.Redis
		idempotencyStore = params.Redis
	}
	apiPolicy := middleware.NewRateLimitPolicy("insights", cfg.RateLimit.Window, cfg.RateLimit.Limit)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(apiPolicy, limiterStore, logg))

		r.Route("/insights", func(r chi.Router) {
			r.Get("/range", insightscontrollers.DatasetRange(params.Analytics, logg))
			r.Get("/categories/reviews", insightscontrollers.CategoryReviews(params.Analytics, logg))
			r.Get("/categories/revenue", insightscontrollers.CategoryRevenue(params.Analytics, logg))
			r.Get("/states", insightscontrollers.StateOrders(params.Analytics, logg))
			r.Get("/rfm", insightscontrollers.RFM(params.Analytics, logg))
			r.Get("/report", insightscontrollers.Report(params.Analytics, logg))
		})

		r.With(middleware.Idempotency(idempotencyStore, logg)).
			Post("/dataset/reload", controllers.DatasetReload(params.Store, logg))
	})

	return r
}
