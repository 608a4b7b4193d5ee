// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
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

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
		[]string{"type"}, // "campaign_recommendation", "system_message", "error"
	)

	WSMessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket commands received",
		},
		[]string{"command"}, // "ping", "start_simulation", "stop_simulation", "unknown"
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"}, // "send_failed", "malformed_command", "upgrade_failed"
	)

	WSIdleDisconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_idle_disconnects_total",
			Help: "Total number of connections closed for inactivity",
		},
	)

	// Recommendation Engine Metrics
	RecommendationsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_generated_total",
			Help: "Total number of campaign recommendations generated",
		},
		[]string{"mode"}, // "engine", "fallback"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_generation_duration_seconds",
			Help:    "Duration of one recommendation generation cycle in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	SignalsAggregated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signals_aggregated_total",
			Help: "Total number of signals collected during aggregation",
		},
		[]string{"source"},
	)

	// Validation Metrics
	ValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validations_total",
			Help: "Total number of recommendation schema validations",
		},
		[]string{"result"}, // "valid", "invalid"
	)

	SanitizationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sanitizations_total",
			Help: "Total number of recommendation sanitization passes",
		},
	)

	SanitizationRepairs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sanitization_repairs_total",
			Help: "Total number of individual field repairs applied during sanitization",
		},
	)

	// Gateway Metrics
	GatewayFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_fetches_total",
			Help: "Total number of source data fetches through the gateway",
		},
		[]string{"source", "outcome"}, // outcome: "mock", "real", "fallback"
	)

	GatewayFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_fetch_duration_seconds",
			Help:    "Duration of upstream API fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	GatewayFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_failures_total",
			Help: "Total number of upstream API failures recorded per source",
		},
		[]string{"source"},
	)

	// Circuit Breaker Metrics
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
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Stream Metrics
	StreamTicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_ticks_total",
			Help: "Total number of stream scheduler ticks",
		},
		[]string{"stream"}, // "global", "client"
	)

	StreamActiveClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stream_active_simulations",
			Help: "Current number of clients with an active simulation",
		},
	)

	StreamMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_messages_dropped_total",
			Help: "Total number of stream messages dropped on slow or dead clients",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordGeneration records one recommendation generation cycle
func RecordGeneration(mode string, duration time.Duration) {
	RecommendationsGenerated.WithLabelValues(mode).Inc()
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordValidation records one schema validation outcome
func RecordValidation(valid bool) {
	if valid {
		ValidationsTotal.WithLabelValues("valid").Inc()
	} else {
		ValidationsTotal.WithLabelValues("invalid").Inc()
	}
}

// RecordGatewayFetch records one gateway fetch and its routing outcome
func RecordGatewayFetch(source, outcome string, duration time.Duration) {
	GatewayFetches.WithLabelValues(source, outcome).Inc()
	if outcome == "real" {
		GatewayFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
	}
}
