// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package gateway

import (
	"context"
	"time"

	"github.com/signalcast/signalcast/internal/logging"
	"github.com/signalcast/signalcast/internal/metrics"
	"github.com/signalcast/signalcast/internal/models"
	"github.com/signalcast/signalcast/internal/sources"
)

// Options are the gateway's resilience knobs.
type Options struct {
	Timeout          time.Duration
	RetryAttempts    int
	RetryDelay       time.Duration
	MaxFailures      int
	FailureResetTime time.Duration
}

// DefaultOptions returns the production defaults: 30s request timeout, two
// attempts with linear backoff, trip after 3 failures inside 5 minutes.
func DefaultOptions() Options {
	return Options{
		Timeout:          30 * time.Second,
		RetryAttempts:    2,
		RetryDelay:       time.Second,
		MaxFailures:      3,
		FailureResetTime: 5 * time.Minute,
	}
}

// Gateway is the single entry point for source data. It owns routing between
// mock generation, real upstream calls, and degraded fallback.
type Gateway struct {
	registry *sources.Registry
	failures *FailureRegistry
	client   *Client
	mock     sources.MockSource
	opts     Options
	now      func() time.Time
}

// New creates a gateway over the given source registry and mock generator.
func New(registry *sources.Registry, mock sources.MockSource, opts Options) *Gateway {
	return &Gateway{
		registry: registry,
		failures: NewFailureRegistry(opts.MaxFailures, opts.FailureResetTime),
		client:   NewClient(opts.Timeout),
		mock:     mock,
		opts:     opts,
		now:      time.Now,
	}
}

// FetchData returns normalized events for sourceID. It never returns an
// error: mocked sources yield synthetic events, disabled or failing real
// sources degrade to tagged fallback events.
func (g *Gateway) FetchData(ctx context.Context, sourceID string) []models.TransformedEvent {
	cfg, ok := g.registry.Config(sourceID)
	if !ok || cfg.Type != sources.TypeRealAPI || cfg.API == nil || cfg.API.Endpoint == "" {
		metrics.RecordGatewayFetch(sourceID, "mock", 0)
		return g.mock.Events(sourceID)
	}

	if g.failures.TemporarilyDisabled(sourceID) {
		logging.Warn().Str("source", sourceID).Msg("Source temporarily disabled, serving fallback data")
		metrics.RecordGatewayFetch(sourceID, "fallback", 0)
		return g.fallbackEvents(sourceID, "temporarily_disabled")
	}

	events, elapsed, err := g.fetchReal(ctx, sourceID, cfg.API.Endpoint, cfg.API.AuthToken)
	if err != nil {
		count := g.failures.Record(sourceID)
		metrics.GatewayFailures.WithLabelValues(sourceID).Inc()
		logging.Error().Err(err).Str("source", sourceID).Int("failure_count", count).Msg("Upstream fetch failed, serving fallback data")
		metrics.RecordGatewayFetch(sourceID, "fallback", elapsed)
		return g.fallbackEvents(sourceID, "api_error")
	}

	g.failures.Reset(sourceID)
	metrics.RecordGatewayFetch(sourceID, "real", elapsed)
	return events
}

// CollectSignals returns the behavioral signals for one source, honoring its
// configuration: disabled or unknown sources contribute nothing, mocked
// sources draw from the mock generator, and real_api sources go through
// FetchData with the normalized events converted back into signals.
// Implements the decision engine's collector contract.
func (g *Gateway) CollectSignals(ctx context.Context, sourceID string) []models.Signal {
	cfg, ok := g.registry.Config(sourceID)
	if !ok || !cfg.Enabled {
		return nil
	}
	if cfg.Type != sources.TypeRealAPI || cfg.API == nil || cfg.API.Endpoint == "" {
		return g.mock.Signals(sourceID)
	}
	return eventsToSignals(g.FetchData(ctx, sourceID))
}

// fetchReal calls the upstream with retries. Backoff is linear: attempt n
// waits n * RetryDelay before retrying.
func (g *Gateway) fetchReal(ctx context.Context, sourceID, endpoint, authToken string) ([]models.TransformedEvent, time.Duration, error) {
	var lastErr error
	start := g.now()

	for attempt := 1; attempt <= g.opts.RetryAttempts; attempt++ {
		body, err := g.client.Fetch(ctx, endpoint, authToken)
		if err == nil {
			elapsed := g.now().Sub(start)
			events, terr := transformResponse(sourceID, endpoint, body, elapsed, g.now())
			if terr == nil {
				return events, elapsed, nil
			}
			err = terr
		}
		lastErr = err

		if attempt < g.opts.RetryAttempts {
			logging.Debug().Err(err).Str("source", sourceID).Int("attempt", attempt).Msg("Upstream attempt failed, retrying")
			select {
			case <-ctx.Done():
				return nil, g.now().Sub(start), ctx.Err()
			case <-time.After(g.opts.RetryDelay * time.Duration(attempt)):
			}
		}
	}
	return nil, g.now().Sub(start), lastErr
}

// fallbackEvents produces mock events tagged with fallback provenance so
// consumers can tell degraded data from a healthy mocked source.
func (g *Gateway) fallbackEvents(sourceID, reason string) []models.TransformedEvent {
	events := g.mock.Events(sourceID)
	ts := models.FormatTimestamp(g.now())
	for i := range events {
		events[i].Metadata.APIFallback = true
		events[i].Metadata.FallbackReason = reason
		events[i].Metadata.FallbackTimestamp = ts
		events[i].Metadata.SourceQuality = "low"
	}
	return events
}

// TestConnection performs a single upstream probe for sourceID without
// touching failure state. Used by the connection-test endpoint.
func (g *Gateway) TestConnection(ctx context.Context, sourceID string) error {
	cfg, ok := g.registry.Config(sourceID)
	if !ok || cfg.Type != sources.TypeRealAPI || cfg.API == nil || cfg.API.Endpoint == "" {
		return nil
	}
	_, err := g.client.Fetch(ctx, cfg.API.Endpoint, cfg.API.AuthToken)
	return err
}

// ResetFailures clears failure state for sourceID, re-enabling it.
func (g *Gateway) ResetFailures(sourceID string) {
	g.failures.Reset(sourceID)
	logging.Info().Str("source", sourceID).Msg("Failure state reset")
}

// SourceHealth is the per-source operational report.
type SourceHealth struct {
	ConfiguredType      sources.SourceType `json:"configured_type"`
	Enabled             bool               `json:"enabled"`
	HasAPIConfig        bool               `json:"has_api_config"`
	FailureCount        int                `json:"failure_count"`
	LastFailure         string             `json:"last_failure,omitempty"`
	TemporarilyDisabled bool               `json:"temporarily_disabled"`
	HealthStatus        string             `json:"health_status"`
}

// Health reports the operational state of one source.
func (g *Gateway) Health(sourceID string) (SourceHealth, bool) {
	cfg, ok := g.registry.Config(sourceID)
	if !ok {
		return SourceHealth{}, false
	}

	count, last := g.failures.Count(sourceID)
	disabled := g.failures.TemporarilyDisabled(sourceID)

	status := "healthy"
	switch {
	case disabled:
		status = "unavailable"
	case count > 0:
		status = "degraded"
	}

	h := SourceHealth{
		ConfiguredType:      cfg.Type,
		Enabled:             cfg.Enabled,
		HasAPIConfig:        cfg.API != nil,
		FailureCount:        count,
		TemporarilyDisabled: disabled,
		HealthStatus:        status,
	}
	if !last.IsZero() {
		h.LastFailure = models.FormatTimestamp(last)
	}
	return h, true
}

// HealthSnapshot reports the operational state of every registered source.
func (g *Gateway) HealthSnapshot() map[string]SourceHealth {
	out := make(map[string]SourceHealth)
	for id := range g.registry.Snapshot() {
		if h, ok := g.Health(id); ok {
			out[id] = h
		}
	}
	return out
}
