package app

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"greencommute/internal/schema"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

const warmUpKey = "warmingUpKey"

func startWarmUpper(ctx context.Context,
	rdb *redis.Client,
	warmupSaverPeriod time.Duration,
	cache keyLister,
	storage warmer,
) {
	if warmupSaverPeriod > 0 {
		go exportKeysPeriodically(ctx, warmupSaverPeriod, cache, rdb)
	}

	go warmup(ctx, rdb, storage)
}

// warmup measures the routes that were hot before the last restart
func warmup(ctx context.Context, rdb *redis.Client, s warmer) int {
	select {
	case <-ctx.Done():
		log.Info().Msg("warmup: context canceled, skipping warm up")
		return 0
	default:
	}

	data, err := rdb.Get(ctx, warmUpKey).Result()
	if errors.Is(err, redis.Nil) {
		log.Info().Msg("warmup: nothing to warm up")
		return 0
	}
	if err != nil {
		log.Error().Err(err).Msg("couldn't warm up")
		return 0
	}

	queries, err := decodeKeys(data)
	if err != nil {
		log.Error().Err(err).Msg("couldn't decode warm up keys")
		return 0
	}
	if len(queries) == 0 {
		return 0
	}

	warmed := s.Warm(ctx, queries)
	log.Info().Int("keys", len(queries)).Int("warmed", warmed).Msg("warm up finished")
	return warmed
}

func decodeKeys(data string) ([]schema.RouteQuery, error) {
	var keys []string
	if err := json.Unmarshal([]byte(data), &keys); err != nil {
		return nil, err
	}

	queries := make([]schema.RouteQuery, 0, len(keys))
	for _, key := range keys {
		query, ok := schema.RouteQueryFromKey(key)
		if !ok {
			log.Warn().Str("key", key).Msg("skipping malformed warm up key")
			continue
		}
		queries = append(queries, query)
	}
	return queries, nil
}

func exportKeys(ctx context.Context, cache keyLister, rdb *redis.Client) error {
	data, err := json.Marshal(cache.Keys())
	if err != nil {
		return err
	}
	return rdb.Set(ctx, warmUpKey, data, 0).Err()
}

func exportKeysPeriodically(ctx context.Context, interval time.Duration, cache keyLister, rdb *redis.Client) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("exportKeysPeriodically: context canceled, stopping export goroutine")
			return
		case <-ticker.C:
			if err := exportKeys(ctx, cache, rdb); err != nil {
				log.Error().Err(err).Msg("couldn't export cache keys")
			}
		}
	}
}
