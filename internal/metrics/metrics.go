// Package metrics exposes the server's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts HTTP requests by route pattern, method and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outings_http_requests_total",
			Help: "HTTP requests processed, by route, method and status code.",
		},
		[]string{"route", "method", "status"},
	)

	// RequestDuration tracks request latency by route pattern.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "outings_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// VotesToggled counts vote toggles by resulting state.
	VotesToggled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outings_votes_toggled_total",
			Help: "Vote toggles applied, by resulting state (voted/unvoted).",
		},
		[]string{"state"},
	)

	// SuggestionFallbacks counts how often the pipeline had to synthesize
	// placeholder candidates because the places service came back short.
	SuggestionFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "outings_suggestion_fallbacks_total",
			Help: "Suggestion runs that padded results with placeholder candidates.",
		},
	)

	// UpstreamErrors counts failed calls to external collaborators.
	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outings_upstream_errors_total",
			Help: "Failed outbound calls, by collaborator (geocode/places/assistant).",
		},
		[]string{"collaborator"},
	)
)

// Handler returns the /metrics HTTP handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
