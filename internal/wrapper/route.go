package wrapper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"greencommute/internal/client"
	"greencommute/internal/dto/directions_dto"
	"greencommute/internal/metrics"
	"greencommute/internal/schema"

	"github.com/rs/zerolog/log"
)

var (
	ErrNoRoute       = errors.New("no route found")
	ErrNoTransitMode = errors.New("no known transit mode on route")
)

const transitMode = "transit"

const (
	outcomeOK      = "ok"
	outcomeError   = "error"
	outcomeNoRoute = "no_route"
)

type Service struct {
	directionsClient directionsClient
	timeout          time.Duration
	departureTime    string
}

func New(directionsClient directionsClient,
	timeout time.Duration,
	departureTime string,
) *Service {
	return &Service{
		directionsClient: directionsClient,
		timeout:          timeout,
		departureTime:    departureTime,
	}
}

// Measure returns distance and duration of the first leg of the first route
func (s *Service) Measure(ctx context.Context, query schema.RouteQuery) (schema.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	directions, err := s.directionsClient.FetchDirections(ctx, toDto(query, s.departureTime))
	if errors.Is(err, client.ErrNoResults) {
		metrics.DirectionsRequests.WithLabelValues(outcomeNoRoute).Inc()
		return schema.Route{}, fmt.Errorf("%w: %w", ErrNoRoute, err)
	}
	if err != nil {
		metrics.DirectionsRequests.WithLabelValues(outcomeError).Inc()
		return schema.Route{}, err
	}

	route, err := toSchema(query, directions)
	if err != nil {
		metrics.DirectionsRequests.WithLabelValues(outcomeNoRoute).Inc()
		return schema.Route{}, err
	}

	metrics.DirectionsRequests.WithLabelValues(outcomeOK).Inc()
	return route, nil
}

// MeasureAll measures every query, failed ones are skipped
func (s *Service) MeasureAll(ctx context.Context, queries []schema.RouteQuery) []schema.Route {
	routes := make([]schema.Route, 0, len(queries))
	for _, query := range queries {
		if ctx.Err() != nil {
			break
		}
		route, err := s.Measure(ctx, query)
		if err != nil {
			log.Warn().Err(err).Str("route", query.Key()).Msg("couldn't measure a route")
			continue
		}
		routes = append(routes, route)
	}
	return routes
}

func toSchema(query schema.RouteQuery, directions *directions_dto.ResponseBody) (schema.Route, error) {
	if len(directions.Routes) == 0 || len(directions.Routes[0].Legs) == 0 {
		return schema.Route{}, ErrNoRoute
	}
	leg := directions.Routes[0].Legs[0]

	route := schema.Route{
		Query:    query,
		Distance: leg.Distance.Value,
		Duration: leg.Duration.Value,
	}

	if query.Mode == transitMode {
		// the whole trip is accounted with the first known vehicle
		mode, ok := firstTransitMode(leg.Steps)
		if !ok {
			return schema.Route{}, ErrNoTransitMode
		}
		route.TransitMode = mode
	}

	return route, nil
}

func firstTransitMode(steps []directions_dto.Step) (schema.TransitMode, bool) {
	for _, step := range steps {
		if step.TransitDetails == nil {
			continue
		}
		if mode, ok := schema.ParseVehicleType(step.TransitDetails.Line.Vehicle.Type); ok {
			return mode, true
		}
	}
	return "", false
}

func toDto(query schema.RouteQuery, departureTime string) directions_dto.Request {
	request := directions_dto.Request{
		Origin:        query.Origin.String(),
		Destination:   query.Destination.String(),
		Mode:          query.Mode,
		DepartureTime: departureTime,
	}
	if query.Stopover != "" {
		request.Waypoints = "via:" + query.Stopover.String()
	}
	return request
}
