package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"greencommute/internal/client"
	"greencommute/internal/env"
	"greencommute/internal/handler"
	"greencommute/internal/schema"
	"greencommute/internal/service"
	"greencommute/internal/storage"
	"greencommute/internal/storage/lru_cache"
	redisStorage "greencommute/internal/storage/redis"
	"greencommute/internal/wrapper"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type App struct{}

const (
	successCode = 0
	failureCode = 1

	shutdownTimeout = 5 * time.Second
)

func New() *App {
	return &App{}
}

func (a *App) Run() (exitCode int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env.LoadEnv()
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	serverPort := env.GetEnv("PORT", "3030")
	redisAddr := env.GetEnv("REDIS_ADDR", "")
	redisPassword := env.GetEnv("REDIS_PASSWORD", "")
	redisDb, err := strconv.Atoi(env.GetEnv("REDIS_DB", "0"))
	if err != nil {
		log.Error().Msg("can't parse REDIS_DB")
		return failureCode
	}
	redisAsyncChanSize, err := strconv.Atoi(env.GetEnv("REDIS_CHAN_SIZE", "1000"))
	if err != nil {
		log.Error().Msg("can't parse REDIS_CHAN_SIZE")
		return failureCode
	}
	redisTTL, err := time.ParseDuration(env.GetEnv("REDIS_TTL", "24h"))
	if err != nil {
		log.Error().Msg("can't parse REDIS_TTL")
		return failureCode
	}
	lruCacheSize, err := strconv.Atoi(env.GetEnv("LRU_CACHE_SIZE", "1000"))
	if err != nil {
		log.Error().Msg("can't parse LRU_CACHE_SIZE")
		return failureCode
	}
	lruChanSize, err := strconv.Atoi(env.GetEnv("LRU_CHAN_SIZE", "1000"))
	if err != nil {
		log.Error().Msg("can't parse LRU_CHAN_SIZE")
		return failureCode
	}
	directionsTimeout, err := time.ParseDuration(env.GetEnv("DIRECTIONS_TIMEOUT", "5s"))
	if err != nil {
		log.Error().Msg("can't parse DIRECTIONS_TIMEOUT")
		return failureCode
	}
	updatePeriod, err := time.ParseDuration(env.GetEnv("UPDATE_CACHE_PERIOD", "24h"))
	if err != nil {
		log.Error().Msg("can't parse UPDATE_CACHE_PERIOD")
		return failureCode
	}
	apiTimeout, err := time.ParseDuration(env.GetEnv("API_TIMEOUT", "10s"))
	if err != nil {
		log.Error().Msg("can't parse API_TIMEOUT")
		return failureCode
	}
	warmupSaverPeriod, err := time.ParseDuration(env.GetEnv("WARMUP_SAVER_PERIOD", "1h"))
	if err != nil {
		log.Error().Msg("can't parse WARMUP_SAVER_PERIOD")
		return failureCode
	}
	departureTime := env.GetEnv("DEPARTURE_TIME", "now")
	corsOrigins := env.GetList("CORS_ORIGINS", []string{"http://localhost:3000"})
	directionsURL := env.GetEnv("DIRECTIONS_URL", "https://maps.googleapis.com/maps/api/directions/json")
	apiKey, err := env.ReadSecret("MAPS_API_KEY", "MAPS_API_KEY_FILE", "maps-api-key")
	if err != nil {
		log.Warn().Err(err).Msg("no maps api key, directions requests are sent without one")
	}

	lruCache := lru_cache.NewLRUCache[string, schema.Route](ctx,
		lruCacheSize,
		lruChanSize,
	)
	directionsClient, err := client.NewClient(directionsURL, apiKey, directionsTimeout)
	if err != nil {
		log.Error().Err(err).Msg("couldn't initialize a directions client")
		return failureCode
	}
	routeWrapper := wrapper.New(directionsClient, directionsTimeout, departureTime)

	var routeStorage *storage.Storage
	var checks map[string]func(ctx context.Context) error
	if redisAddr == "" {
		log.Info().Msg("REDIS_ADDR is empty, running with the local cache only")
		routeStorage = storage.New(ctx, lruCache, nil, routeWrapper, updatePeriod)
	} else {
		redis := redisStorage.New[schema.Route](ctx,
			redisAddr,
			redisPassword,
			redisDb,
			marshalRoute,
			unmarshalRoute,
			redisAsyncChanSize,
			redisTTL,
		)
		routeStorage = storage.New(ctx, lruCache, redis, routeWrapper, updatePeriod)
		checks = map[string]func(ctx context.Context) error{"redis": redis.Ping}

		startWarmUpper(ctx, redis.Redis(), warmupSaverPeriod, lruCache, routeStorage)
	}

	estimateHandler := handler.New(service.New(routeStorage), apiTimeout)

	server := &http.Server{
		Addr:              ":" + serverPort,
		Handler:           routes(estimateHandler, corsOrigins, checks),
		ReadHeaderTimeout: 5 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("started listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error().Err(err).Msg("Server crashed")
		return failureCode
	}

	log.Info().Msg("server stopped")
	return successCode
}

func marshalRoute(route schema.Route) (string, error) {
	data, err := json.Marshal(route)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalRoute(s string) (schema.Route, error) {
	var route schema.Route
	err := json.Unmarshal([]byte(s), &route)
	if err != nil {
		return schema.Route{}, err
	}
	return route, nil
}
