package cmd

import (
	"context"
	"testing"
	"time"

	"detailing-bot/internal/catalog"
	"detailing-bot/internal/storage"
	"detailing-bot/pkg/redis"

	"go.uber.org/zap"
)

type mapCache map[string][]byte

func (m mapCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m[key]
	if !ok {
		return nil, redis.ErrNotFound
	}
	return v, nil
}

func (m mapCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m[key] = data
	return nil
}

func (m mapCache) Del(_ context.Context, key string) error {
	delete(m, key)
	return nil
}

func TestInvalidateCatalog(t *testing.T) {
	ctx := context.Background()
	cache := mapCache{}
	logger := zap.NewNop()

	old := catalog.MustNew([]catalog.Service{{ID: "exterior-wash", Name: "Hand Wash", Price: 79}}, nil)
	if _, err := storage.NewCachedCatalog(old, cache, time.Minute, logger).Catalog(ctx); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if len(cache) != 1 {
		t.Fatalf("expected a cached snapshot, got %d keys", len(cache))
	}

	migrated := catalog.Default()
	if err := invalidateCatalog(ctx, migrated, cache, time.Minute, logger); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if len(cache) != 0 {
		t.Fatalf("expected cache emptied after migration, got %d keys", len(cache))
	}

	got, err := storage.NewCachedCatalog(migrated, cache, time.Minute, logger).Catalog(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(got.Services()) != len(migrated.Services()) {
		t.Errorf("expected the migrated catalog after invalidation, got %d services", len(got.Services()))
	}
}
