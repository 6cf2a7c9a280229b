package storage

import (
	"context"

	"greencommute/internal/schema"
	"greencommute/internal/storage/lru_cache"
)

type routeMeasurer interface {
	Measure(ctx context.Context, query schema.RouteQuery) (schema.Route, error)
	MeasureAll(ctx context.Context, queries []schema.RouteQuery) []schema.Route
}

type lruLocalCache[K comparable, V any] interface {
	BatchGet(keys []K) ([]V, []K)
	Update(rows []lru_cache.CacheItem[K, V])
	GetValues() []V
}

type redisCache[V any] interface {
	BatchGet(ctx context.Context, keys []string) ([]V, []string, error)
	Update(keys []string, values []V)
}
