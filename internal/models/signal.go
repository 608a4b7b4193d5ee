// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package models

// UrgencyLevel is the coarse classification of how time-sensitive an
// audience's conversion opportunity is.
type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "low"
	UrgencyMedium UrgencyLevel = "medium"
	UrgencyHigh   UrgencyLevel = "high"
)

// Signal is a single weighted, timestamped observation from a data source.
// Signals are ephemeral: created per aggregation cycle, never persisted, and
// owned exclusively by the aggregation call that produced them.
type Signal struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"`
	Type       string         `json:"type"`
	Timestamp  string         `json:"timestamp"`
	Data       map[string]any `json:"data"`
	Weight     float64        `json:"weight"`
	Confidence float64        `json:"confidence"`
}

// AggregatedSignals is the immutable snapshot one aggregation cycle produces.
//
// Invariant: AudienceScore = min(1, (TotalWeight/len(Signals)) * AverageConfidence),
// with both derived statistics defined as 0 for an empty signal set.
type AggregatedSignals struct {
	Signals           []Signal     `json:"signals"`
	TotalWeight       float64      `json:"totalWeight"`
	AverageConfidence float64      `json:"averageConfidence"`
	PrimaryTriggers   []string     `json:"primaryTriggers"`
	AudienceScore     float64      `json:"audienceScore"`
	UrgencyLevel      UrgencyLevel `json:"urgencyLevel"`
}

// EventMetadata annotates a TransformedEvent with provenance and quality.
type EventMetadata struct {
	SourceQuality         string `json:"source_quality"`
	APIEndpoint           string `json:"api_endpoint"`
	ResponseTimeMS        int64  `json:"response_time"`
	IsRealAPI             bool   `json:"is_real_api"`
	TransformationVersion string `json:"transformation_version"`
	APIFallback           bool   `json:"api_fallback,omitempty"`
	FallbackReason        string `json:"fallback_reason,omitempty"`
	FallbackTimestamp     string `json:"fallback_timestamp,omitempty"`
}

// TransformedEvent is the normalized shape the gateway produces from every
// upstream response, whatever the source-specific JSON looked like.
type TransformedEvent struct {
	ID        string         `json:"id"`
	Source    string         `json:"source"`
	EventType string         `json:"eventType"`
	Timestamp string         `json:"timestamp"`
	UserID    string         `json:"userId,omitempty"`
	SessionID string         `json:"sessionId,omitempty"`
	Data      map[string]any `json:"data"`
	Metadata  EventMetadata  `json:"metadata"`
}
