// Package metrics holds the service's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks total number of HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "correction_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "correction_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "correction_http_active_requests",
			Help: "Number of in-flight HTTP requests",
		},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "correction_http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	// CalculationsTotal counts calculation requests by outcome
	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "correction_calculations_total",
			Help: "Calculation requests by document type and outcome",
		},
		[]string{"document_type", "outcome"},
	)

	RecordsExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "correction_records_extracted_total",
			Help: "Transaction records produced, by document type and kind",
		},
		[]string{"document_type", "kind"},
	)

	CoefficientRowsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "correction_coefficient_rows_dropped_total",
			Help: "Coefficient rows dropped because a date or number did not parse",
		},
	)

	StatementPages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "correction_statement_pages",
			Help:    "Pages per uploaded statement",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		},
	)
)

const (
	OutcomeOK           = "ok"
	OutcomeInvalidInput = "invalid_input"
	OutcomeError        = "error"
)
