package storage

import (
	"context"
	"fmt"
	"time"

	"greencommute/internal/schema"
	"greencommute/internal/storage/lru_cache"

	"github.com/rs/zerolog/log"
)

// Storage of measured routes: local lru, then redis, then the directions api
type Storage struct {
	lruLocalCache lruLocalCache[string, schema.Route]
	redisCache    redisCache[schema.Route]
	routeMeasurer routeMeasurer
}

type redisRes struct {
	route schema.Route
	found bool
}

type measureRes struct {
	route schema.Route
	err   error
}

// New return storage of routes, redisCache may be nil to run without redis
func New(ctx context.Context,
	lruLocalCache lruLocalCache[string, schema.Route],
	redisCache redisCache[schema.Route],
	routeMeasurer routeMeasurer,
	updatePeriod time.Duration) *Storage {
	storage := &Storage{
		lruLocalCache: lruLocalCache,
		redisCache:    redisCache,
		routeMeasurer: routeMeasurer,
	}

	//updater, that re-measures routes in caches
	if updatePeriod > 0 {
		go storage.runUpdater(ctx, updatePeriod)
	}

	return storage
}

// Get return a measured route
func (s *Storage) Get(ctx context.Context, query schema.RouteQuery) (schema.Route, error) {
	key := query.Key()

	//getting from local in memory cache
	found, _ := s.lruLocalCache.BatchGet([]string{key})
	if len(found) != 0 {
		return found[0], nil
	}

	//use channels to cancel context and keep SLI
	if s.redisCache != nil {
		redisCh := make(chan redisRes, 1)
		go s.fetchFromRedis(ctx, key, redisCh)

		select {
		case rRes := <-redisCh:
			if rRes.found {
				return rRes.route, nil
			}
		case <-ctx.Done():
			//async update cache for the key we didn't get
			go s.asyncUpdateCache(query)
			return schema.Route{}, fmt.Errorf("route lookup: %w", ctx.Err())
		}
	}

	measureCh := make(chan measureRes, 1)
	go s.fetchFromDirections(ctx, query, measureCh)

	select {
	case mRes := <-measureCh:
		if mRes.err != nil {
			return schema.Route{}, mRes.err
		}
		s.save(mRes.route)
		return mRes.route, nil
	case <-ctx.Done():
		go s.asyncUpdateCache(query)
		return schema.Route{}, fmt.Errorf("route lookup: %w", ctx.Err())
	}
}

// Warm fills the caches with routes that are likely to be asked again
func (s *Storage) Warm(ctx context.Context, queries []schema.RouteQuery) int {
	warmed := 0
	for _, query := range queries {
		if ctx.Err() != nil {
			break
		}
		if _, err := s.Get(ctx, query); err != nil {
			log.Warn().Err(err).Str("route", query.Key()).Msg("couldn't warm up a route")
			continue
		}
		warmed++
	}
	return warmed
}

func (s *Storage) save(route schema.Route) {
	s.lruLocalCache.Update([]lru_cache.CacheItem[string, schema.Route]{toCacheEntity(route)})
	if s.redisCache != nil {
		s.redisCache.Update([]string{route.Query.Key()}, []schema.Route{route})
	}
}

func (s *Storage) asyncUpdateCache(query schema.RouteQuery) {
	route, err := s.routeMeasurer.Measure(context.Background(), query)
	if err != nil {
		log.Warn().Err(err).Str("route", query.Key()).Msg("couldn't update a route in cache")
		return
	}
	s.save(route)
}

func toCacheEntity(route schema.Route) lru_cache.CacheItem[string, schema.Route] {
	return lru_cache.CacheItem[string, schema.Route]{
		Key:   route.Query.Key(),
		Value: route,
	}
}

func toCacheEntities(routes []schema.Route) []lru_cache.CacheItem[string, schema.Route] {
	result := make([]lru_cache.CacheItem[string, schema.Route], 0, len(routes))
	for _, route := range routes {
		result = append(result, toCacheEntity(route))
	}
	return result
}

func extractKeys(routes []schema.Route) []string {
	result := make([]string, 0, len(routes))
	for _, route := range routes {
		result = append(result, route.Query.Key())
	}
	return result
}

func extractQueries(routes []schema.Route) []schema.RouteQuery {
	result := make([]schema.RouteQuery, 0, len(routes))
	for _, route := range routes {
		result = append(result, route.Query)
	}
	return result
}

// gets from redis and send to chan
func (s *Storage) fetchFromRedis(ctx context.Context, key string, out chan<- redisRes) {
	var res redisRes
	select {
	case <-ctx.Done():
	default:
		found, _, err := s.redisCache.BatchGet(ctx, []string{key})
		if err != nil {
			log.Warn().Err(err).Msg("redis lookup failed")
		} else if len(found) != 0 {
			res = redisRes{route: found[0], found: true}
		}
	}
	out <- res
	if res.found {
		s.lruLocalCache.Update([]lru_cache.CacheItem[string, schema.Route]{toCacheEntity(res.route)})
	}
}

// gets from the directions api and send to chan
func (s *Storage) fetchFromDirections(ctx context.Context, query schema.RouteQuery, out chan<- measureRes) {
	select {
	case <-ctx.Done():
		out <- measureRes{err: ctx.Err()}
	default:
		route, err := s.routeMeasurer.Measure(ctx, query)
		out <- measureRes{route: route, err: err}
	}
}

// updater, that re-measures cached routes, traffic changes durations
func (s *Storage) runUpdater(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			routes := s.routeMeasurer.MeasureAll(ctx, extractQueries(s.lruLocalCache.GetValues()))

			s.lruLocalCache.Update(toCacheEntities(routes))
			if s.redisCache != nil {
				s.redisCache.Update(extractKeys(routes), routes)
			}
			log.Info().Int("routes", len(routes)).Msg("cached routes refreshed")

		case <-ctx.Done():
			return
		}
	}
}
