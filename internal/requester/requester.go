package requester

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"greencommute/internal/schema"

	"github.com/rs/zerolog/log"
)

const DefaultBaseURL = "http://localhost:3030"

var (
	ErrNetwork           = errors.New("estimate service unreachable")
	ErrStatus            = errors.New("estimate service answered with an error status")
	ErrMalformedResponse = errors.New("malformed estimate response")
)

// Requester talks to the estimate service
type Requester struct {
	BaseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) (*Requester, error) {
	if baseURL == "" {
		return nil, errors.New("base url is empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	return &Requester{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// URL of the /car estimate, parameters keep the form order
func (r *Requester) URL(origin, destination schema.Location, fuel schema.Propulsion, size schema.CarSize) string {
	return r.TransportURL(schema.TransportCar, schema.CommuteQuery{
		Origin:      origin,
		Destination: destination,
		Propulsion:  fuel,
		Size:        size,
	})
}

// TransportURL estimate URL of any transport kind
func (r *Requester) TransportURL(kind schema.TransportKind, query schema.CommuteQuery) string {
	params := []string{
		param("origin", query.Origin.String()),
		param("destination", query.Destination.String()),
	}
	if kind == schema.TransportCar || kind == schema.TransportCarPool {
		params = append(params,
			param("propulsion", string(query.Propulsion)),
			param("size", string(query.Size)),
		)
	}
	if kind == schema.TransportCarPool {
		params = append(params, param("stopover", query.Stopover.String()))
	}
	return r.BaseURL + "/" + string(kind) + "?" + strings.Join(params, "&")
}

func param(key, value string) string {
	return key + "=" + escape(value)
}

// escape percent-encodes a value, spaces become %20 rather than +
func escape(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}

// Fetch requests the car estimate of a form snapshot
func (r *Requester) Fetch(ctx context.Context, query schema.CommuteQuery) (schema.EstimateResult, error) {
	return r.FetchTransport(ctx, schema.TransportCar, query)
}

func (r *Requester) FetchTransport(ctx context.Context, kind schema.TransportKind, query schema.CommuteQuery) (schema.EstimateResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.TransportURL(kind, query), nil)
	if err != nil {
		return schema.EstimateResult{}, fmt.Errorf("err during creating a request with context: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return schema.EstimateResult{}, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Error().Msg("couldn't close a body")
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return schema.EstimateResult{}, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	var body struct {
		Distance  float64  `json:"distance"`
		Duration  *float64 `json:"duration"`
		Emissions *float64 `json:"emissions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return schema.EstimateResult{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if body.Duration == nil || body.Emissions == nil {
		return schema.EstimateResult{}, fmt.Errorf("%w: emissions or duration missing", ErrMalformedResponse)
	}

	return schema.EstimateResult{
		Distance:  body.Distance,
		Duration:  *body.Duration,
		Emissions: *body.Emissions,
	}, nil
}

// Submit sends one car estimate request for the current form values.
// The request is not cancelled with ctx and is never retried.
// On success the form is completed, a failure only gets logged.
// The returned channel is closed once the request is over.
func (r *Requester) Submit(ctx context.Context, form commuteForm) <-chan struct{} {
	query := form.Query()
	ctx = context.WithoutCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)

		start := time.Now()
		result, err := r.Fetch(ctx, query)
		if err != nil {
			log.Warn().
				Err(err).
				Str("origin", query.Origin.String()).
				Str("destination", query.Destination.String()).
				Msg("estimate request failed")
			return
		}

		log.Debug().Dur("latency", time.Since(start)).Msg("estimate received")
		form.Complete(result)
	}()

	return done
}
