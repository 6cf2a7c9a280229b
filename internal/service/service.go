package service

import (
	"context"
	"fmt"

	"greencommute/internal/emission"
	"greencommute/internal/schema"
)

type Service struct {
	storage storage
}

func New(storage storage) *Service {
	return &Service{
		storage: storage,
	}
}

// Estimate measures the commute and calculates its emissions per person
func (s *Service) Estimate(ctx context.Context,
	origin schema.Location,
	destination schema.Location,
	transport schema.Transport,
) (schema.Estimate, error) {
	route, err := s.storage.Get(ctx, toQuery(origin, destination, transport))
	if err != nil {
		return schema.Estimate{}, err
	}

	if transport.Kind == schema.TransportTransit {
		transport.TransitMode = route.TransitMode
	}

	emissions, err := emission.Calculate(route.Distance, transport)
	if err != nil {
		return schema.Estimate{}, fmt.Errorf("calculate emissions: %w", err)
	}

	return schema.Estimate{
		Distance:  route.Distance,
		Duration:  route.Duration,
		Emissions: emissions,
	}, nil
}

func toQuery(origin, destination schema.Location, transport schema.Transport) schema.RouteQuery {
	query := schema.RouteQuery{
		Origin:      origin,
		Destination: destination,
		Mode:        transport.Mode(),
	}
	if transport.Kind == schema.TransportCarPool {
		query.Stopover = transport.Stopover
	}
	return query
}
