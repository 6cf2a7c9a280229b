package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"greencommute/internal/dto/estimate_dto"
	"greencommute/internal/schema"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	estimator      estimator
	requestTimeout time.Duration
}

func New(estimator estimator, timeout time.Duration) *Handler {
	return &Handler{
		estimator:      estimator,
		requestTimeout: timeout,
	}
}

// Car GET /car?origin=&destination=&propulsion=&size=
func (h *Handler) Car(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, schema.TransportCar)
}

// CarPool GET /carpool?origin=&destination=&propulsion=&size=&stopover=
func (h *Handler) CarPool(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, schema.TransportCarPool)
}

// Cycle GET /cycle?origin=&destination=
func (h *Handler) Cycle(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, schema.TransportCycle)
}

// Transit GET /transit?origin=&destination=
func (h *Handler) Transit(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, schema.TransportTransit)
}

// Walk GET /walk?origin=&destination=
func (h *Handler) Walk(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, schema.TransportWalk)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, kind schema.TransportKind) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Invalid request method")
		return
	}

	values := r.URL.Query()
	routeQuery := estimate_dto.NewRouteQuery(values)
	if err := routeQuery.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "origin and destination are required")
		return
	}

	transport, err := toTransport(kind, values)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	logger := zerolog.Ctx(r.Context())

	reqStart := time.Now()
	estimate, err := h.estimator.Estimate(ctx,
		schema.Location(routeQuery.Origin),
		schema.Location(routeQuery.Destination),
		transport,
	)
	latency := time.Since(reqStart)

	if err != nil {
		logger.Error().Err(err).Str("transport", string(kind)).Dur("latency", latency).Msg("couldn't estimate a commute")
		// only the request deadline is a timeout, a provider timeout is a provider failure
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			writeError(w, http.StatusGatewayTimeout, "Route lookup timed out")
			return
		}
		writeError(w, http.StatusBadGateway, "Couldn't measure the route")
		return
	}

	logger.Info().Str("transport", string(kind)).Dur("latency", latency).Msg("estimated a commute")

	writeJSON(w, http.StatusOK, estimate_dto.ResponseBody{
		Distance:  estimate.Distance,
		Duration:  estimate.Duration,
		Emissions: estimate.Emissions,
	})
}

func toTransport(kind schema.TransportKind, values url.Values) (schema.Transport, error) {
	transport := schema.Transport{Kind: kind}
	if !transport.IsCar() {
		return transport, nil
	}

	carQuery := estimate_dto.NewCarQuery(values)
	if err := carQuery.Validate(); err != nil {
		return schema.Transport{}, errors.New("propulsion must be one of gas, diesel, electric and size one of small, medium, large")
	}
	propulsion, err := schema.ParsePropulsion(carQuery.Propulsion)
	if err != nil {
		return schema.Transport{}, err
	}
	size, err := schema.ParseCarSize(carQuery.Size)
	if err != nil {
		return schema.Transport{}, err
	}
	transport.Propulsion = propulsion
	transport.Size = size

	if kind == schema.TransportCarPool {
		carPoolQuery := estimate_dto.NewCarPoolQuery(values)
		if err := carPoolQuery.Validate(); err != nil {
			return schema.Transport{}, errors.New("stopover is required")
		}
		transport.Stopover = schema.Location(carPoolQuery.Stopover)
	}

	return transport, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("couldn't write a response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, estimate_dto.ErrorBody{Error: message})
}
