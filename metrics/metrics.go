// Package metrics provides Prometheus metrics for the symptoms API.
//
// HTTP traffic:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// Diagnosis and sessions:
//   - diagnosis_outcomes_total: Counter with the path label (label, score, none)
//   - diagnosis_score: Histogram of the best overlap score of each scored message
//   - sessions_active: Gauge of sessions held by the in-memory store
//   - rate_limiter_buckets_total: Gauge of client buckets tracked by the rate limiter
//
// All metrics are registered with the Prometheus default registry at init.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	DiagnosisOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnosis_outcomes_total",
			Help: "Chat replies by the pipeline branch that produced them",
		},
		[]string{"path"},
	)

	DiagnosisScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "diagnosis_score",
			Help:    "Best symptom overlap score of each scored message",
			Buckets: []float64{0, .1, .2, .3, .4, .5, .6, .7, .8, .9, 1},
		},
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Sessions currently held by the in-memory session store",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (clients seen in last ~5 minutes)",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestTotals,
		HTTPRequestDuration,
		HTTPRequestInFlight,
		DiagnosisOutcomes,
		DiagnosisScore,
		SessionsActive,
		RateLimiterBucketsTotal,
	)
}
