// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package gateway

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/signalcast/signalcast/internal/models"
	"github.com/signalcast/signalcast/internal/sources"
)

// transformVersion tags every normalized event with the transform revision.
const transformVersion = "v1.0"

// arrayRule maps one top-level response array onto the event type its items
// become.
type arrayRule struct {
	key       string
	eventType string
}

// sourceShape describes how one upstream's JSON maps onto normalized events.
// Arrays are walked in declared order so event order is deterministic.
type sourceShape struct {
	arrays []arrayRule
}

// sourceShapes maps catalog source ids to their upstream response layout.
// Unknown sources fall back to a single api_response envelope event.
var sourceShapes = map[string]sourceShape{
	"website": {arrays: []arrayRule{
		{"pageviews", "page_view"},
		{"conversions", "conversion"},
	}},
	"shopify": {arrays: []arrayRule{
		{"orders", "order_created"},
	}},
	"facebook_page": {arrays: []arrayRule{
		{"data", "post_engagement"},
	}},
	"google_ads_tag": {arrays: []arrayRule{
		{"results", "ad_performance"},
	}},
	"crm_system": {arrays: []arrayRule{
		{"contacts", "contact_activity"},
		{"results", "contact_activity"},
	}},
}

// transformResponse normalizes a raw upstream body into events. Items inside
// the recognized arrays become one event each; anything else collapses into a
// single envelope event so no successful fetch is ever silently dropped.
func transformResponse(source, endpoint string, body []byte, responseTime time.Duration, now time.Time) ([]models.TransformedEvent, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse %s response: %w", source, err)
	}

	meta := models.EventMetadata{
		SourceQuality:         "high",
		APIEndpoint:           endpoint,
		ResponseTimeMS:        responseTime.Milliseconds(),
		IsRealAPI:             true,
		TransformationVersion: transformVersion,
	}
	timestamp := models.FormatTimestamp(now)

	shape, ok := sourceShapes[source]
	if !ok {
		return []models.TransformedEvent{{
			ID:        uuid.NewString(),
			Source:    source,
			EventType: "api_response",
			Timestamp: timestamp,
			Data:      payload,
			Metadata:  meta,
		}}, nil
	}

	var events []models.TransformedEvent
	for _, rule := range shape.arrays {
		items, ok := payload[rule.key].([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			data, ok := item.(map[string]any)
			if !ok {
				data = map[string]any{"value": item}
			}
			events = append(events, models.TransformedEvent{
				ID:        uuid.NewString(),
				Source:    source,
				EventType: rule.eventType,
				Timestamp: timestamp,
				UserID:    stringField(data, "user_id", "userId", "customer_id"),
				SessionID: stringField(data, "session_id", "sessionId"),
				Data:      data,
				Metadata:  meta,
			})
		}
	}

	if len(events) == 0 {
		events = append(events, models.TransformedEvent{
			ID:        uuid.NewString(),
			Source:    source,
			EventType: "api_response",
			Timestamp: timestamp,
			Data:      payload,
			Metadata:  meta,
		})
	}
	return events, nil
}

// eventSignalWeights maps normalized upstream event types to signal weights
// for the aggregation pipeline.
var eventSignalWeights = map[string]float64{
	"page_view":        0.5,
	"conversion":       0.9,
	"order_created":    0.8,
	"post_engagement":  0.6,
	"ad_performance":   0.6,
	"contact_activity": 0.5,
}

// defaultEventWeight covers event types with no weight mapping, including
// api_response envelopes.
const defaultEventWeight = 0.4

// eventsToSignals converts normalized events into behavioral signals. Weight
// comes from the mock template table when the event type is a known signal
// type, otherwise from the upstream event-type table; confidence follows the
// event's source quality, so degraded fallback data scores conservatively.
func eventsToSignals(events []models.TransformedEvent) []models.Signal {
	signals := make([]models.Signal, 0, len(events))
	for _, e := range events {
		weight, ok := sources.SignalWeight(e.EventType)
		if !ok {
			if weight, ok = eventSignalWeights[e.EventType]; !ok {
				weight = defaultEventWeight
			}
		}

		confidence := 0.5
		switch e.Metadata.SourceQuality {
		case "high":
			confidence = 0.9
		case "medium":
			confidence = 0.7
		}

		signals = append(signals, models.Signal{
			ID:         e.ID,
			Source:     e.Source,
			Type:       e.EventType,
			Timestamp:  e.Timestamp,
			Data:       e.Data,
			Weight:     weight,
			Confidence: confidence,
		})
	}
	return signals
}

// stringField returns the first present string value among keys.
func stringField(data map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := data[k].(string); ok {
			return v
		}
	}
	return ""
}
