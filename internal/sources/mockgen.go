// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package sources

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/signalcast/signalcast/internal/models"
)

// SignalSource produces behavioral signals for a data source. The production
// implementation is the stochastic MockGenerator; tests inject a fixed-output
// stub so the scoring pipeline stays deterministic.
type SignalSource interface {
	Signals(sourceID string) []models.Signal
}

// EventSource produces normalized events for a data source. The gateway uses
// this as its fallback when a real upstream is unavailable.
type EventSource interface {
	Events(sourceID string) []models.TransformedEvent
}

// MockSource is the full mock collaborator: it can render a source either as
// behavioral signals or as normalized events.
type MockSource interface {
	SignalSource
	EventSource
}

// signalTemplate is one synthetic signal shape with its fixed weight.
type signalTemplate struct {
	eventType string
	weight    float64
	data      map[string]any
}

// signalTemplates maps source ids to their synthetic signal shapes. Weights
// are fixed per template; confidence is randomized per emission.
var signalTemplates = map[string][]signalTemplate{
	"website": {
		{"cart_abandonment", 0.9, map[string]any{"cart_value": 150, "items_count": 3}},
		{"product_view", 0.6, map[string]any{"product_id": "prod_123", "category": "electronics"}},
		{"session_extension", 0.5, map[string]any{"duration": 420, "pages": 12}},
	},
	"shopify": {
		{"order_history", 0.8, map[string]any{"total_orders": 5, "avg_value": 275}},
		{"wishlist_activity", 0.6, map[string]any{"items_added": 2, "last_added": "2024-01-15"}},
	},
	"crm_system": {
		{"customer_tier_upgrade", 0.7, map[string]any{"new_tier": "gold", "previous": "silver"}},
		{"support_interaction", 0.5, map[string]any{"satisfaction": 4.8, "topic": "product_inquiry"}},
	},
}

// SignalWeight returns the template weight for a known signal type. Callers
// converting normalized events back into signals use it so degraded data
// keeps the weights of its mocked counterpart.
func SignalWeight(signalType string) (float64, bool) {
	for _, templates := range signalTemplates {
		for _, tpl := range templates {
			if tpl.eventType == signalType {
				return tpl.weight, true
			}
		}
	}
	return 0, false
}

// MockGenerator synthesizes signals and events for any source id. It is the
// stochastic external collaborator: the number of signals per cycle (1-3) and
// each signal's confidence (0.6-1.0) are drawn from the generator's RNG, so a
// seeded RNG makes output reproducible.
type MockGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// MockOption configures a MockGenerator.
type MockOption func(*MockGenerator)

// WithRand replaces the generator's RNG, typically with a seeded one.
func WithRand(rng *rand.Rand) MockOption {
	return func(g *MockGenerator) { g.rng = rng }
}

// WithClock replaces the generator's time source.
func WithClock(now func() time.Time) MockOption {
	return func(g *MockGenerator) { g.now = now }
}

// NewMockGenerator creates a generator backed by its own RNG.
func NewMockGenerator(opts ...MockOption) *MockGenerator {
	g := &MockGenerator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // simulation data, not crypto
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Signals produces 1-3 signals for sourceID from its template table. Unknown
// sources get a single low-weight generic_activity signal.
func (g *MockGenerator) Signals(sourceID string) []models.Signal {
	g.mu.Lock()
	defer g.mu.Unlock()

	templates, ok := signalTemplates[sourceID]
	if !ok {
		templates = []signalTemplate{
			{"generic_activity", 0.4, map[string]any{"source": sourceID}},
		}
	}

	count := g.rng.Intn(3) + 1
	if count > len(templates) {
		count = len(templates)
	}

	now := g.now()
	signals := make([]models.Signal, 0, count)
	for _, tpl := range templates[:count] {
		// Emission time lands within the last hour.
		offset := time.Duration(g.rng.Int63n(int64(time.Hour)))
		data := make(map[string]any, len(tpl.data))
		for k, v := range tpl.data {
			data[k] = v
		}
		signals = append(signals, models.Signal{
			ID:         uuid.NewString(),
			Source:     sourceID,
			Type:       tpl.eventType,
			Timestamp:  models.FormatTimestamp(now.Add(-offset)),
			Data:       data,
			Weight:     tpl.weight,
			Confidence: 0.6 + g.rng.Float64()*0.4,
		})
	}
	return signals
}

// Events renders the same synthetic signals in the gateway's normalized event
// shape, tagged as non-real-API output.
func (g *MockGenerator) Events(sourceID string) []models.TransformedEvent {
	signals := g.Signals(sourceID)
	events := make([]models.TransformedEvent, 0, len(signals))
	for _, s := range signals {
		events = append(events, models.TransformedEvent{
			ID:        s.ID,
			Source:    s.Source,
			EventType: s.Type,
			Timestamp: s.Timestamp,
			Data:      s.Data,
			Metadata: models.EventMetadata{
				SourceQuality:         "medium",
				APIEndpoint:           "mock_data_generator",
				ResponseTimeMS:        0,
				IsRealAPI:             false,
				TransformationVersion: "v1.0",
			},
		})
	}
	return events
}
