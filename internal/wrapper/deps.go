package wrapper

import (
	"context"

	"greencommute/internal/dto/directions_dto"
)

type directionsClient interface {
	FetchDirections(ctx context.Context, request directions_dto.Request) (*directions_dto.ResponseBody, error)
}
