package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/orderinsights/api/controllers"
	"github.com/angelmondragon/orderinsights/api/routes"
	"github.com/angelmondragon/orderinsights/internal/analytics"
	"github.com/angelmondragon/orderinsights/internal/cron"
	"github.com/angelmondragon/orderinsights/internal/dataset"
	"github.com/angelmondragon/orderinsights/internal/refresh"
	"github.com/angelmondragon/orderinsights/pkg/config"
	"github.com/angelmondragon/orderinsights/pkg/idempotency"
	"github.com/angelmondragon/orderinsights/pkg/instance"
	"github.com/angelmondragon/orderinsights/pkg/logger"
	"github.com/angelmondragon/orderinsights/pkg/metrics"
	"github.com/angelmondragon/orderinsights/pkg/pubsub"
	"github.com/angelmondragon/orderinsights/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	ctx = logg.WithDatasetSource(ctx, cfg.Dataset.Source.String())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	wiring, err := buildSource(ctx, cfg, logg)
	if err != nil {
		return err
	}

	store, err := dataset.NewStore(dataset.StoreParams{
		Source:      wiring.source,
		Policy:      dataset.NewCustomerKeyPolicy(cfg.Dataset.CustomerKeyLength),
		LoadTimeout: cfg.Dataset.LoadTimeout,
		Metrics:     metrics.NewDatasetMetrics(registry),
		Logger:      logg,
		Closers:     wiring.closers,
	})
	if err != nil {
		return multierr.Append(err, closeAll(wiring.closers))
	}
	defer func() {
		err = multierr.Append(err, store.Close())
	}()

	if err := store.Init(ctx); err != nil {
		return err
	}

	service, err := analytics.NewService(store, metrics.NewReportMetrics(registry))
	if err != nil {
		return err
	}

	readiness := wiring.readiness
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
		readiness = append(readiness, controllers.Dependency{Name: "redis", Pinger: redisClient})
	} else {
		logg.Warn(ctx, "redis not configured; rate limiting and reload replay disabled")
	}

	group, groupCtx := errgroup.WithContext(ctx)

	if cfg.PubSub.Enabled() {
		if redisClient == nil {
			return errors.New("dataset refresh subscription requires redis for deduplication")
		}
		var consumer *refresh.Service
		var psClient *pubsub.Client
		consumer, psClient, err = buildRefreshConsumer(ctx, cfg, logg, store, redisClient)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, psClient.Close())
		}()
		readiness = append(readiness, controllers.Dependency{Name: "pubsub", Pinger: psClient})
		group.Go(func() error {
			return ignoreCanceled(consumer.Run(groupCtx))
		})
	}

	if cfg.Dataset.ReloadInterval > 0 {
		scheduler, err := buildReloadScheduler(cfg, logg, store, registry)
		if err != nil {
			return err
		}
		group.Go(func() error {
			return ignoreCanceled(scheduler.Run(groupCtx))
		})
	}

	var routerRedis routes.RedisStore
	if redisClient != nil {
		routerRedis = redisClient
	}
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:    cfg,
			Logger:    logg,
			Store:     store,
			Analytics: service,
			Redis:     routerRedis,
			Gatherer:  registry,
			Readiness: readiness,
		}),
	}

	group.Go(func() error {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		logg.Info(ctx, "api server shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

func buildRefreshConsumer(ctx context.Context, cfg *config.Config, logg *logger.Logger, store *dataset.Store, redisClient *redis.Client) (*refresh.Service, *pubsub.Client, error) {
	psClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		return nil, nil, err
	}
	manager, err := idempotency.NewManager(redisClient, cfg.Refresh.IdempotencyTTL)
	if err != nil {
		return nil, nil, multierr.Append(err, psClient.Close())
	}
	consumer, err := refresh.NewService(psClient.RefreshSubscription(), store, manager, logg)
	if err != nil {
		return nil, nil, multierr.Append(err, psClient.Close())
	}
	return consumer, psClient, nil
}

func buildReloadScheduler(cfg *config.Config, logg *logger.Logger, store *dataset.Store, reg prometheus.Registerer) (*cron.Service, error) {
	job, err := cron.NewDatasetReloadJob(store, logg)
	if err != nil {
		return nil, err
	}
	return cron.NewService(cron.ServiceParams{
		Logger:         logg,
		Registry:       cron.NewRegistry(job),
		Metrics:        metrics.NewCronJobMetrics(reg),
		Interval:       cfg.Dataset.ReloadInterval,
		SkipInitialRun: true,
	})
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func closeAll(closers []func() error) error {
	var err error
	for _, closeFn := range closers {
		err = multierr.Append(err, closeFn())
	}
	return err
}
