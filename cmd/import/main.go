package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/orderinsights/internal/dataset"
	"github.com/angelmondragon/orderinsights/pkg/config"
	"github.com/angelmondragon/orderinsights/pkg/db"
	"github.com/angelmondragon/orderinsights/pkg/logger"
	"github.com/angelmondragon/orderinsights/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "import"})

	_ = godotenv.Load()

	file := flag.String("file", "", "csv export to import (defaults to the configured dataset path)")
	replace := flag.Bool("replace", false, "empty order_lines before inserting")
	batchSize := flag.Int("batch", 500, "rows per insert statement")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "import",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	path := *file
	if path == "" {
		path = cfg.Dataset.CSVPath
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"file":    path,
		"replace": *replace,
	})

	requireResource(ctx, logg, "database config", cfg.RequireDB())

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	requireResource(ctx, logg, "dev migrations", migrate.MaybeRunDev(ctx, cfg, logg, dbClient))

	f, err := os.Open(path)
	requireResource(ctx, logg, "csv file", err)
	defer f.Close()

	batch, err := dataset.ReadCSV(ctx, f, dataset.NewCustomerKeyPolicy(cfg.Dataset.CustomerKeyLength))
	requireResource(ctx, logg, "csv parse", err)
	if batch.Skipped > 0 {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"skipped": batch.Skipped,
			"issues":  fmt.Sprint(batch.Issues),
		}), "skipped malformed rows")
	}

	inserted, err := dataset.ImportOrderLines(ctx, dbClient, batch.Records, dataset.ImportOptions{
		Replace:   *replace,
		BatchSize: *batchSize,
	})
	requireResource(ctx, logg, "import", err)

	logg.Info(logg.WithField(ctx, "rows", inserted), "order lines imported")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
