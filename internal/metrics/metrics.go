package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "greencommute"

var (
	// CacheLookups counts route cache lookups by tier and result (hit or miss)
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "route_cache_lookups_total",
		Help:      "Route cache lookups by tier and result.",
	}, []string{"tier", "result"})

	// DirectionsRequests counts calls to the directions provider by outcome
	DirectionsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "directions_requests_total",
		Help:      "Requests sent to the directions provider.",
	}, []string{"outcome"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Handled HTTP requests.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// ObserveCache records hits and misses of one cache tier
func ObserveCache(tier string, hits, misses int) {
	CacheLookups.WithLabelValues(tier, "hit").Add(float64(hits))
	CacheLookups.WithLabelValues(tier, "miss").Add(float64(misses))
}
