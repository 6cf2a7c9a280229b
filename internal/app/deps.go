package app

import (
	"context"
	"net/http"

	"greencommute/internal/schema"
)

type estimateHandler interface {
	Car(w http.ResponseWriter, r *http.Request)
	CarPool(w http.ResponseWriter, r *http.Request)
	Cycle(w http.ResponseWriter, r *http.Request)
	Transit(w http.ResponseWriter, r *http.Request)
	Walk(w http.ResponseWriter, r *http.Request)
}

type keyLister interface {
	Keys() []string
}

type warmer interface {
	Warm(ctx context.Context, queries []schema.RouteQuery) int
}
