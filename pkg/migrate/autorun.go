package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/orderinsights/pkg/config"
	"github.com/angelmondragon/orderinsights/pkg/db"
	"github.com/angelmondragon/orderinsights/pkg/db/models"
	"github.com/angelmondragon/orderinsights/pkg/logger"
)

// MaybeRunDev prepares the order_lines table automatically when the app is
// running in dev mode and the feature flag is enabled. Goose migrations are
// written for Postgres; a sqlite database is shaped from the model instead.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir, "driver": cfg.DB.Driver}
	ctx = logg.WithFields(ctx, meta)

	if cfg.DB.IsSQLite() {
		logg.Info(ctx, "auto-migrating order_lines (sqlite)")
		if err := client.DB().WithContext(ctx).AutoMigrate(&models.OrderLine{}); err != nil {
			return fmt.Errorf("auto-migrating order_lines: %w", err)
		}
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Info(ctx, "running Goose migrations (dev auto-run)")
	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}
