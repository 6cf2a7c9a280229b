package main

import (
	"encoding/json"
	"hash/fnv"
	"net/http"
	"os"
	"time"

	"greencommute/internal/dto/directions_dto"
	"greencommute/internal/env"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// meters per second by travel mode
var speeds = map[string]int{
	"driving":   11,
	"bicycling": 4,
	"transit":   8,
	"walking":   1,
}

var vehicles = []string{"BUS", "COMMUTER_TRAIN", "SUBWAY", "RAIL", "TRAM"}

// distance deterministic pseudo distance between 2 and 40 km
func distance(parts ...string) int {
	h := fnv.New32a()
	for _, part := range parts {
		_, _ = h.Write([]byte(part))
		_, _ = h.Write([]byte{0})
	}
	return 2000 + int(h.Sum32()%38000)
}

func directionsHandler(latency time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
			return
		}

		query := r.URL.Query()
		origin, destination, mode := query.Get("origin"), query.Get("destination"), query.Get("mode")
		w.Header().Set("Content-Type", "application/json")

		speed, ok := speeds[mode]
		if !ok || origin == "" || destination == "" {
			_ = json.NewEncoder(w).Encode(directions_dto.ResponseBody{
				Status:       "INVALID_REQUEST",
				ErrorMessage: "origin, destination and a known mode are required",
			})
			return
		}
		time.Sleep(latency)

		meters := distance(origin, destination, query.Get("waypoints"))
		leg := directions_dto.Leg{
			Distance: directions_dto.Entry{Value: meters},
			Duration: directions_dto.Entry{Value: meters / speed},
			Steps:    []directions_dto.Step{{}},
		}
		if mode == "transit" {
			vehicle := vehicles[meters%len(vehicles)]
			leg.Steps = append(leg.Steps, directions_dto.Step{
				TransitDetails: &directions_dto.TransitDetails{
					Line: directions_dto.Line{Vehicle: directions_dto.Vehicle{Type: vehicle}},
				},
			})
		}

		response := directions_dto.ResponseBody{
			Status: "OK",
			Routes: []directions_dto.Route{{Legs: []directions_dto.Leg{leg}}},
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Error().Err(err).Msg("couldn't write a response")
		}
	}
}

func main() {
	env.LoadEnv()
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	port := env.GetEnv("MOCK_PORT", "8081")
	latency, err := time.ParseDuration(env.GetEnv("MOCK_LATENCY", "300ms"))
	if err != nil {
		log.Fatal().Err(err).Msg("can't parse MOCK_LATENCY")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/maps/api/directions/json", directionsHandler(latency))

	log.Info().Str("port", port).Msg("mock directions server running")
	server := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("mock server crashed")
	}
}
