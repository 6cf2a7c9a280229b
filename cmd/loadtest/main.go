package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"greencommute/internal/env"
	"greencommute/internal/requester"
	"greencommute/internal/schema"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	propulsions = []schema.Propulsion{schema.PropulsionGas, schema.PropulsionDiesel, schema.PropulsionElectric}
	sizes       = []schema.CarSize{schema.CarSizeSmall, schema.CarSizeMedium, schema.CarSizeLarge}
)

// randomURL picks one of addresses*addresses routes so the caches get both hits and misses
func randomURL(r *requester.Requester, addresses int) string {
	return r.URL(
		schema.Location(fmt.Sprintf("Home %d", rand.Intn(addresses))),
		schema.Location(fmt.Sprintf("Work %d", rand.Intn(addresses))),
		propulsions[rand.Intn(len(propulsions))],
		sizes[rand.Intn(len(sizes))],
	)
}

func main() {
	env.LoadEnv()
	if needTest := os.Getenv("NEED_TEST"); needTest != "true" {
		return
	}
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	concurrency := flag.Int("concurrency", 100, "Number of concurrent workers")
	duration := flag.Duration("duration", 5*time.Second, "Duration of the load test")
	addresses := flag.Int("addresses", 100, "Number of distinct home and work addresses")
	flag.Parse()

	target, err := requester.New(env.GetEnv("TARGET_URL", requester.DefaultBaseURL), 0)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid TARGET_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	log.Info().
		Str("target", target.BaseURL).
		Int("concurrency", *concurrency).
		Dur("duration", *duration).
		Msg("Starting load test")

	startTime := time.Now()
	var wg sync.WaitGroup
	var failed atomic.Int64

	latencyChan := make(chan time.Duration, 100000)

	var latencies []time.Duration
	var aggWg sync.WaitGroup
	aggWg.Add(1)
	go func() {
		defer aggWg.Done()
		for lat := range latencyChan {
			latencies = append(latencies, lat)
		}
	}()

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			client := &http.Client{}
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				req, err := http.NewRequestWithContext(ctx, http.MethodGet, randomURL(target, *addresses), nil)
				if err != nil {
					log.Error().Err(err).Int("worker", workerID).Msg("Error creating request")
					continue
				}

				reqStart := time.Now()
				resp, err := client.Do(req)
				latency := time.Since(reqStart)
				if err != nil {
					if ctx.Err() == nil {
						failed.Add(1)
						log.Error().Err(err).Int("worker", workerID).Msg("Error sending request")
					}
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				_ = resp.Body.Close()

				if resp.StatusCode != http.StatusOK {
					failed.Add(1)
				}
				latencyChan <- latency
			}
		}(i)
	}

	wg.Wait()
	close(latencyChan)
	aggWg.Wait()

	if len(latencies) > 0 {
		sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
		index := int(float64(len(latencies)) * 0.99)
		if index >= len(latencies) {
			index = len(latencies) - 1
		}
		log.Info().Str("99th_percentile", latencies[index].String()).Msg("99th percentile latency")
	}

	totalTime := time.Since(startTime).Seconds()
	rps := float64(len(latencies)) / totalTime
	log.Info().
		Int("total_requests", len(latencies)).
		Int64("failed", failed.Load()).
		Float64("rps", rps).
		Msg("Load test completed")
}
