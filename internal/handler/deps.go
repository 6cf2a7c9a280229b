package handler

import (
	"context"

	"greencommute/internal/schema"
)

type estimator interface {
	Estimate(ctx context.Context, origin schema.Location, destination schema.Location, transport schema.Transport) (schema.Estimate, error)
}
