package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"detailing-bot/internal/catalog"
	"detailing-bot/pkg/redis"

	"go.uber.org/zap"
)

type mapCache struct {
	values map[string][]byte
	getErr error
}

func (m *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return nil, redis.ErrNotFound
	}
	return v, nil
}

func (m *mapCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.values[key] = data
	return nil
}

func (m *mapCache) Del(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

type countingProvider struct {
	calls int
	err   error
}

func (p *countingProvider) Catalog(context.Context) (*catalog.Catalog, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return catalog.Default(), nil
}

func TestCachedCatalog_ReadThrough(t *testing.T) {
	source := &countingProvider{}
	cache := &mapCache{values: map[string][]byte{}}
	cached := NewCachedCatalog(source, cache, time.Minute, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		cat, err := cached.Catalog(ctx)
		if err != nil {
			t.Fatalf("Catalog failed: %v", err)
		}
		if got := cat.ServicePrice("ceramic-coating"); got != 899 {
			t.Fatalf("expected 899, got %d", got)
		}
	}
	if source.calls != 1 {
		t.Errorf("expected one source call, got %d", source.calls)
	}

	if err := cached.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, err := cached.Catalog(ctx); err != nil {
		t.Fatalf("Catalog failed: %v", err)
	}
	if source.calls != 2 {
		t.Errorf("expected source reload after invalidate, got %d calls", source.calls)
	}
}

func TestCachedCatalog_CacheDownFallsBack(t *testing.T) {
	source := &countingProvider{}
	cache := &mapCache{values: map[string][]byte{}, getErr: errors.New("connection refused")}
	cached := NewCachedCatalog(source, cache, time.Minute, zap.NewNop())

	if _, err := cached.Catalog(context.Background()); err != nil {
		t.Fatalf("cache outage must not fail lookups: %v", err)
	}
	if source.calls != 1 {
		t.Errorf("expected source call, got %d", source.calls)
	}
}

func TestCachedCatalog_CorruptEntryReloads(t *testing.T) {
	source := &countingProvider{}
	cache := &mapCache{values: map[string][]byte{catalogCacheKey: []byte("{not json")}}
	cached := NewCachedCatalog(source, cache, time.Minute, zap.NewNop())

	if _, err := cached.Catalog(context.Background()); err != nil {
		t.Fatalf("Catalog failed: %v", err)
	}
	if source.calls != 1 {
		t.Errorf("expected reload from source, got %d calls", source.calls)
	}
}

func TestCachedCatalog_SourceError(t *testing.T) {
	source := &countingProvider{err: errors.New("db down")}
	cached := NewCachedCatalog(source, &mapCache{values: map[string][]byte{}}, time.Minute, zap.NewNop())

	if _, err := cached.Catalog(context.Background()); err == nil {
		t.Error("expected error when source fails and cache is empty")
	}
}
