package main

import (
	"context"
	"fmt"

	"github.com/angelmondragon/orderinsights/api/controllers"
	"github.com/angelmondragon/orderinsights/internal/dataset"
	"github.com/angelmondragon/orderinsights/pkg/bigquery"
	"github.com/angelmondragon/orderinsights/pkg/config"
	"github.com/angelmondragon/orderinsights/pkg/db"
	"github.com/angelmondragon/orderinsights/pkg/enums"
	"github.com/angelmondragon/orderinsights/pkg/logger"
	"github.com/angelmondragon/orderinsights/pkg/migrate"
	"github.com/angelmondragon/orderinsights/pkg/storage/gcs"
)

// sourceWiring is the configured dataset backend plus what the process must
// probe and release alongside it.
type sourceWiring struct {
	source    dataset.Source
	readiness []controllers.Dependency
	closers   []func() error
}

func buildSource(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*sourceWiring, error) {
	switch cfg.Dataset.Source {
	case enums.DatasetSourceCSV:
		return &sourceWiring{source: dataset.NewCSVSource(cfg.Dataset.CSVPath)}, nil

	case enums.DatasetSourceDB:
		dbClient, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			_ = dbClient.Close()
			return nil, fmt.Errorf("dev migrations: %w", err)
		}
		return &sourceWiring{
			source:    dataset.NewSQLSource(dbClient.DB(), cfg.Dataset.Table),
			readiness: []controllers.Dependency{{Name: "database", Pinger: dbClient}},
			closers:   []func() error{dbClient.Close},
		}, nil

	case enums.DatasetSourceBigQuery:
		bqClient, err := bigquery.NewClient(ctx, cfg.GCP, cfg.BigQuery, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap bigquery: %w", err)
		}
		return &sourceWiring{
			source:    dataset.NewBigQuerySource(bqClient),
			readiness: []controllers.Dependency{{Name: "bigquery", Pinger: bqClient}},
			closers:   []func() error{bqClient.Close},
		}, nil

	case enums.DatasetSourceGCS:
		gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap gcs: %w", err)
		}
		return &sourceWiring{
			source:    dataset.NewGCSSource(gcsClient.BucketHandle(""), cfg.Dataset.CSVPath),
			readiness: []controllers.Dependency{{Name: "gcs", Pinger: gcsClient}},
			closers:   []func() error{gcsClient.Close},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported dataset source %q", cfg.Dataset.Source)
	}
}
