// Package app assembles the pieces both binaries share.
package app

import (
	"context"
	"fmt"

	"detailing-bot/internal/catalog"
	"detailing-bot/internal/config"
	"detailing-bot/internal/storage"
	"detailing-bot/pkg/api"

	"go.uber.org/zap"
)

// CatalogProvider builds the configured catalog source. When cache is non-nil
// the source is fronted by the Redis catalog cache. The returned func releases
// whatever the source holds open.
func CatalogProvider(
	ctx context.Context,
	cfg *config.Config,
	cache storage.Cache,
	logger *zap.Logger,
) (catalog.Provider, func() error, error) {
	const operation = "app.CatalogProvider"

	var (
		source  catalog.Provider
		release = func() error { return nil }
	)

	switch cfg.CatalogSource {
	case config.CatalogStatic:
		source = catalog.Default()

	case config.CatalogPostgres:
		pg, err := storage.NewPostgresStorage(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", operation, err)
		}
		source, release = pg, pg.Close

	case config.CatalogHTTP:
		source = api.NewClient(cfg.CatalogURL, cfg.CatalogToken, cfg.HTTPRequestTimeout, logger)

	default:
		return nil, nil, fmt.Errorf("%s: unknown catalog source %q", operation, cfg.CatalogSource)
	}

	logger.Info("Catalog source ready", zap.String("source", cfg.CatalogSource))

	// The static catalog is already in memory.
	if cache == nil || cfg.CatalogSource == config.CatalogStatic {
		return source, release, nil
	}
	return storage.NewCachedCatalog(source, cache, cfg.CatalogCacheTTL, logger), release, nil
}
