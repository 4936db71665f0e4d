package cmd

import (
	"context"
	"database/sql"
	"time"

	"detailing-bot/internal/app"
	"detailing-bot/internal/catalog"
	"detailing-bot/internal/storage"
	"detailing-bot/pkg/redis"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the catalog database schema",
	}

	steps := []struct {
		use   string
		short string
		run   func(context.Context, *sql.DB, *zap.Logger) error
		// writes marks steps that change the stored catalog.
		writes bool
	}{
		{"up", "Apply all pending migrations", storage.RunMigrations, true},
		{"down", "Roll back the last migration", storage.RollbackMigration, true},
		{"status", "Show applied and pending migrations", storage.MigrationStatus, false},
	}

	for _, step := range steps {
		run, writes := step.run, step.writes
		cmd.AddCommand(&cobra.Command{
			Use:   step.use,
			Short: step.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()

				pg, err := storage.NewPostgresStorage(ctx, e.cfg.Database, e.logger)
				if err != nil {
					return err
				}
				defer pg.Close()

				if err := run(ctx, pg.DB(), e.logger); err != nil {
					return err
				}
				if writes && e.cfg.RedisAddr != "" {
					e.dropCachedCatalog(ctx, pg)
				}
				return nil
			},
		})
	}

	return cmd
}

// dropCachedCatalog clears the catalog snapshot the service keeps in Redis so
// it reloads from Postgres. Failure only warns: the snapshot still expires.
func (e *env) dropCachedCatalog(ctx context.Context, source catalog.Provider) {
	client := redis.New(app.RedisOptions(e.cfg))
	defer client.Close()

	if err := invalidateCatalog(ctx, source, client, e.cfg.CatalogCacheTTL, e.logger); err != nil {
		e.logger.Warn("Failed to drop cached catalog", zap.Error(err))
		return
	}
	e.logger.Info("Dropped cached catalog")
}

func invalidateCatalog(ctx context.Context, source catalog.Provider, cache storage.Cache, ttl time.Duration, logger *zap.Logger) error {
	return storage.NewCachedCatalog(source, cache, ttl, logger).Invalidate(ctx)
}
