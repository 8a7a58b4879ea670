package migrate

import (
	"context"
	"fmt"

	"github.com/luxurydrive/backoffice/pkg/config"
	"github.com/luxurydrive/backoffice/pkg/db"
	"github.com/luxurydrive/backoffice/pkg/db/models"
	"github.com/luxurydrive/backoffice/pkg/logger"
)

// MaybeRunDev applies the schema automatically when the app is running in dev
// mode and the feature flag is enabled. The sqlite store migrates through GORM
// (the goose SQL files are postgres-dialect); postgres runs goose.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if cfg.FeatureFlags.UseSQLite {
		ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "path": cfg.FeatureFlags.SQLitePath})
		logg.Info(ctx, "running GORM auto-migration (sqlite dev store)")
		if err := client.DB().AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("sqlite auto-migrate: %w", err)
		}
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, Dialect(), DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}

// Dialect names the goose dialect. The migration files are postgres-dialect
// only; the sqlite store never goes through goose.
func Dialect() string {
	return "postgres"
}
