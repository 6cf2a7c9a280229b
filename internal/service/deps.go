package service

import (
	"context"

	"greencommute/internal/schema"
)

type storage interface {
	Get(ctx context.Context, query schema.RouteQuery) (schema.Route, error)
}
