package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"detailing-bot/internal/catalog"
	"detailing-bot/pkg/redis"

	"go.uber.org/zap"
)

const catalogCacheKey = "catalog:v1"

// Cache is the part of pkg/redis the catalog cache uses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

var _ Cache = (*redis.Client)(nil)

// CachedCatalog is a read-through Redis cache in front of another provider.
// Cache failures are logged and never fail a lookup.
type CachedCatalog struct {
	source catalog.Provider
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

var _ catalog.Provider = (*CachedCatalog)(nil)

func NewCachedCatalog(source catalog.Provider, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedCatalog {
	return &CachedCatalog{source: source, cache: cache, ttl: ttl, logger: logger}
}

func (c *CachedCatalog) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	cached, err := c.cache.Get(ctx, catalogCacheKey)
	switch {
	case err == nil:
		var snap catalog.Snapshot
		if err := json.Unmarshal(cached, &snap); err == nil {
			if cat, err := catalog.FromSnapshot(snap); err == nil {
				return cat, nil
			}
		}
		c.logger.Warn("Discarding unreadable cached catalog")
	case !errors.Is(err, redis.ErrNotFound):
		c.logger.Warn("Catalog cache unavailable", zap.Error(err))
	}

	cat, err := c.source.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	if data, err := json.Marshal(cat.Snapshot()); err == nil {
		if err := c.cache.Set(ctx, catalogCacheKey, data, c.ttl); err != nil {
			c.logger.Warn("Failed to cache catalog", zap.Error(err))
		}
	}
	return cat, nil
}

// Invalidate drops the cached snapshot so the next lookup hits the source.
func (c *CachedCatalog) Invalidate(ctx context.Context) error {
	return c.cache.Del(ctx, catalogCacheKey)
}
