package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"greencommute/internal/dto/directions_dto"

	"github.com/rs/zerolog/log"
)

const statusOK = "OK"

// ErrNoResults the provider found no route between the locations
var ErrNoResults = errors.New("no directions results")

// statuses of a valid request without a route
var noResultStatuses = map[string]bool{
	"ZERO_RESULTS": true,
	"NOT_FOUND":    true,
}

type Client struct {
	APIURL string
	apiKey string
	client *http.Client
}

func NewClient(apiURL string, apiKey string, timeout time.Duration) (*Client, error) {
	if apiURL == "" {
		return nil, errors.New("api url is empty")
	}
	return &Client{
		APIURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// URL of a directions request, every parameter is query escaped
func (c *Client) URL(request directions_dto.Request) string {
	params := url.Values{}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	params.Set("origin", request.Origin)
	params.Set("destination", request.Destination)
	params.Set("mode", request.Mode)
	if request.DepartureTime != "" {
		params.Set("departure_time", request.DepartureTime)
	}
	if request.Waypoints != "" {
		params.Set("waypoints", request.Waypoints)
	}
	return c.APIURL + "?" + params.Encode()
}

func (c *Client) FetchDirections(ctx context.Context, request directions_dto.Request) (*directions_dto.ResponseBody, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(request), nil)
	if err != nil {
		return nil, fmt.Errorf("err during creating a request with context: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Error().Msg("couldn't close a body")
			return
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("unexpected status code: " + resp.Status)
	}

	var response directions_dto.ResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("err during unmarshaling of a response: %w", err)
	}

	// the api answers 200 with a status field for failed lookups
	if noResultStatuses[response.Status] {
		return nil, fmt.Errorf("%w: directions status %s", ErrNoResults, response.Status)
	}
	if response.Status != "" && response.Status != statusOK {
		return nil, fmt.Errorf("directions status %s: %s", response.Status, response.ErrorMessage)
	}

	return &response, nil
}
