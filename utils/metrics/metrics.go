// Package metrics provides Prometheus metrics for the thumbnail cache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup results.
const (
	LookupHit     = "hit"
	LookupMiss    = "miss"
	LookupExpired = "expired"
)

var (
	// LookupsTotal counts cache lookups by result.
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thumbcache",
			Name:      "lookups_total",
			Help:      "Total number of cache lookups",
		},
		[]string{"result"},
	)

	// ProductionDuration measures artifact production (read, resize, encode, write).
	ProductionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "thumbcache",
			Name:      "production_duration_seconds",
			Help:      "Duration of thumbnail production in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	// RemoteRequestsTotal counts HEAD/GET calls to remote sources.
	RemoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thumbcache",
			Name:      "remote_requests_total",
			Help:      "Total number of remote source requests",
		},
		[]string{"method", "status"},
	)

	// ErrorsTotal counts errors by taxonomy code.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thumbcache",
			Name:      "errors_total",
			Help:      "Total number of errors",
		},
		[]string{"operation", "code"},
	)

	// EntriesSwept counts entries removed by the expiry sweeper.
	EntriesSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "thumbcache",
			Name:      "entries_swept_total",
			Help:      "Total number of expired cache entries removed by the sweeper",
		},
	)
)

// RecordLookup records a cache lookup result.
func RecordLookup(result string) {
	LookupsTotal.WithLabelValues(result).Inc()
}

// RecordProduction records a produced thumbnail.
func RecordProduction(mode string, seconds float64) {
	ProductionDuration.WithLabelValues(mode).Observe(seconds)
}

// RecordRemoteRequest records a remote call. status is the HTTP status or "error".
func RecordRemoteRequest(method, status string) {
	RemoteRequestsTotal.WithLabelValues(method, status).Inc()
}

// RecordError records an error.
func RecordError(operation, code string) {
	ErrorsTotal.WithLabelValues(operation, code).Inc()
}

// RecordSwept adds n removed entries.
func RecordSwept(n int) {
	EntriesSwept.Add(float64(n))
}
