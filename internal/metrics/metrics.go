// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Cache lookups by outcome
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Detail lookups by entity kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// Provider
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of metadata provider requests",
		},
		[]string{"endpoint", "status"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Metadata provider request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 10},
		},
		[]string{"endpoint"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Enrichment pool
	EnrichQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "enrich_queue_depth",
			Help: "Number of enrichment tasks waiting in the queue",
		},
	)

	EnrichInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "enrich_in_flight",
			Help: "Number of enrichment tasks currently running",
		},
	)

	EnrichTasks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrich_tasks_total",
			Help: "Completed enrichment tasks by kind and result",
		},
		[]string{"kind", "result"},
	)

	EnrichTaskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enrich_task_duration_seconds",
			Help:    "Enrichment task duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	EnrichDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrich_dropped_total",
			Help: "Enrichment tasks rejected because the queue was full or closed",
		},
		[]string{"kind"},
	)

	EnrichCoalesced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrich_coalesced_total",
			Help: "Provider fetches shared with a concurrent request for the same id",
		},
		[]string{"kind"},
	)

	JournalPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "journal_pending_entries",
			Help: "Enrichment tasks written to the journal and not yet confirmed",
		},
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// RecordDBQuery records a store query.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordCacheLookup records the outcome of a detail lookup.
func RecordCacheLookup(kind, outcome string) {
	CacheLookups.WithLabelValues(kind, outcome).Inc()
}

// RecordProviderRequest records a provider call. status is the HTTP status,
// or 0 when the request failed before a response arrived.
func RecordProviderRequest(endpoint string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	ProviderRequests.WithLabelValues(endpoint, label).Inc()
	ProviderRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordEnrichTask records a finished enrichment task.
func RecordEnrichTask(kind string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	EnrichTasks.WithLabelValues(kind, result).Inc()
	EnrichTaskDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordAPIRequest records an API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-progress API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
