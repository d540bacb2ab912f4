// Package metrics provides Prometheus metrics for calmeetings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "calmeetings"

var (
	// UpstreamRequests counts calls made to calendar providers.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of requests sent to calendar providers",
		},
		[]string{"provider", "operation", "result"},
	)

	// UpstreamDuration measures calls made to calendar providers.
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of requests sent to calendar providers in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider", "operation"},
	)

	// MeetingsReturned counts normalized meetings handed back to callers.
	MeetingsReturned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meetings_returned_total",
			Help:      "Total number of normalized meetings returned",
		},
		[]string{"provider"},
	)
)

// Result labels an upstream call outcome.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
