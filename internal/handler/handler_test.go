package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"greencommute/internal/schema"
)

type estimatorMock struct {
	estimateFunc func(ctx context.Context, origin schema.Location, destination schema.Location, transport schema.Transport) (schema.Estimate, error)
}

func (m *estimatorMock) Estimate(ctx context.Context, origin schema.Location, destination schema.Location, transport schema.Transport) (schema.Estimate, error) {
	return m.estimateFunc(ctx, origin, destination, transport)
}

func TestHandler_Handle(t *testing.T) {
	okEstimate := func(ctx context.Context, origin schema.Location, destination schema.Location, transport schema.Transport) (schema.Estimate, error) {
		return schema.Estimate{Distance: 7300, Duration: 1260, Emissions: 2482}, nil
	}

	testCases := []struct {
		name             string
		method           string
		target           string
		route            func(h *Handler) http.HandlerFunc
		estimate         func(ctx context.Context, origin schema.Location, destination schema.Location, transport schema.Transport) (schema.Estimate, error)
		timeout          time.Duration
		expectedStatus   int
		expectedResponse string
	}{
		{
			name:             "Invalid HTTP Method",
			method:           http.MethodPost,
			target:           "/car?origin=a&destination=b&propulsion=gas&size=medium",
			route:            func(h *Handler) http.HandlerFunc { return h.Car },
			expectedStatus:   http.StatusMethodNotAllowed,
			expectedResponse: "Invalid request method",
		},
		{
			name:             "Missing destination",
			method:           http.MethodGet,
			target:           "/walk?origin=a",
			route:            func(h *Handler) http.HandlerFunc { return h.Walk },
			expectedStatus:   http.StatusBadRequest,
			expectedResponse: "origin and destination are required",
		},
		{
			name:             "Unknown propulsion",
			method:           http.MethodGet,
			target:           "/car?origin=a&destination=b&propulsion=coal&size=medium",
			route:            func(h *Handler) http.HandlerFunc { return h.Car },
			expectedStatus:   http.StatusBadRequest,
			expectedResponse: "propulsion must be one of",
		},
		{
			name:             "Carpool without stopover",
			method:           http.MethodGet,
			target:           "/carpool?origin=a&destination=b&propulsion=gas&size=medium",
			route:            func(h *Handler) http.HandlerFunc { return h.CarPool },
			expectedStatus:   http.StatusBadRequest,
			expectedResponse: "stopover is required",
		},
		{
			name:   "Estimator returns error",
			method: http.MethodGet,
			target: "/cycle?origin=a&destination=b",
			route:  func(h *Handler) http.HandlerFunc { return h.Cycle },
			estimate: func(ctx context.Context, origin schema.Location, destination schema.Location, transport schema.Transport) (schema.Estimate, error) {
				return schema.Estimate{}, errors.New("no route found")
			},
			expectedStatus:   http.StatusBadGateway,
			expectedResponse: "Couldn't measure the route",
		},
		{
			name:   "Estimator times out",
			method: http.MethodGet,
			target: "/transit?origin=a&destination=b",
			route:  func(h *Handler) http.HandlerFunc { return h.Transit },
			timeout: 10 * time.Millisecond,
			estimate: func(ctx context.Context, origin schema.Location, destination schema.Location, transport schema.Transport) (schema.Estimate, error) {
				<-ctx.Done()
				return schema.Estimate{}, fmt.Errorf("route lookup: %w", ctx.Err())
			},
			expectedStatus:   http.StatusGatewayTimeout,
			expectedResponse: "Route lookup timed out",
		},
		{
			name:   "Directions provider times out within the request deadline",
			method: http.MethodGet,
			target: "/car?origin=a&destination=b&propulsion=gas&size=medium",
			route:  func(h *Handler) http.HandlerFunc { return h.Car },
			estimate: func(ctx context.Context, origin schema.Location, destination schema.Location, transport schema.Transport) (schema.Estimate, error) {
				return schema.Estimate{}, fmt.Errorf("request error: %w", context.DeadlineExceeded)
			},
			expectedStatus:   http.StatusBadGateway,
			expectedResponse: "Couldn't measure the route",
		},
		{
			name:             "Successful response",
			method:           http.MethodGet,
			target:           "/car?origin=Flutstra%C3%9Fe+23&destination=Am+Friedrichshain+20D&propulsion=gas&size=medium",
			route:            func(h *Handler) http.HandlerFunc { return h.Car },
			estimate:         okEstimate,
			expectedStatus:   http.StatusOK,
			expectedResponse: `{"distance":7300,"duration":1260,"emissions":2482}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, tc.target, nil)

			estimate := tc.estimate
			if estimate == nil {
				estimate = func(ctx context.Context, origin schema.Location, destination schema.Location, transport schema.Transport) (schema.Estimate, error) {
					t.Error("estimator must not be called")
					return schema.Estimate{}, nil
				}
			}
			timeout := tc.timeout
			if timeout == 0 {
				timeout = time.Second
			}
			h := New(&estimatorMock{estimateFunc: estimate}, timeout)

			tc.route(h)(rr, req)

			if rr.Code != tc.expectedStatus {
				t.Errorf("expected status %d, got %d", tc.expectedStatus, rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tc.expectedResponse) {
				t.Errorf("expected response to contain %q, got %q", tc.expectedResponse, rr.Body.String())
			}
		})
	}
}

func TestHandler_PassesQueryToEstimator(t *testing.T) {
	var gotOrigin, gotDestination schema.Location
	var gotTransport schema.Transport
	h := New(&estimatorMock{
		estimateFunc: func(ctx context.Context, origin schema.Location, destination schema.Location, transport schema.Transport) (schema.Estimate, error) {
			gotOrigin, gotDestination, gotTransport = origin, destination, transport
			return schema.Estimate{}, nil
		},
	}, time.Second)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/carpool?origin=Flutstra%C3%9Fe+23%2C+12439+Berlin&destination=work&propulsion=Electric&size=big&stopover=A%26B", nil)
	h.CarPool(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if gotOrigin != "Flutstraße 23, 12439 Berlin" || gotDestination != "work" {
		t.Errorf("unexpected locations %q -> %q", gotOrigin, gotDestination)
	}
	expected := schema.Transport{
		Kind:       schema.TransportCarPool,
		Propulsion: schema.PropulsionElectric,
		Size:       schema.CarSizeLarge,
		Stopover:   "A&B",
	}
	if gotTransport != expected {
		t.Errorf("expected transport %+v, got %+v", expected, gotTransport)
	}
}
