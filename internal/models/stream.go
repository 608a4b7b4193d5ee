// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package models

import "time"

// Stream message types delivered to clients.
const (
	MessageTypeRecommendation = "campaign_recommendation"
	MessageTypeSystem         = "system_message"
	MessageTypeError          = "error"
)

// Inbound command types accepted from clients. Anything else is logged and
// ignored.
const (
	CommandPing            = "ping"
	CommandStartSimulation = "start_simulation"
	CommandStopSimulation  = "stop_simulation"
)

// StreamMessage is the outbound envelope for every message a client receives.
// Data is a CampaignRecommendation for recommendation messages and a plain
// string for system and error messages.
type StreamMessage struct {
	Type      string `json:"type"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// NewStreamMessage stamps an outbound envelope with the current time.
func NewStreamMessage(msgType string, data any) StreamMessage {
	return StreamMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: FormatTimestamp(time.Now()),
	}
}

// Command is the inbound message shape from a connected client.
type Command struct {
	Type   string            `json:"type"`
	Config *SimulationConfig `json:"config,omitempty"`
}

// SimulationConfig scopes one client's simulation: which sources feed the
// engine, which channels are planned, and the cadence of delivery. Interval
// and Duration are milliseconds on the wire, matching the client protocol.
type SimulationConfig struct {
	SelectedSources  []string `json:"selectedSources" validate:"required,min=1,dive,min=1"`
	SelectedChannels []string `json:"selectedChannels" validate:"required,min=1,dive,min=1"`
	Interval         int64    `json:"interval,omitempty" validate:"omitempty,min=100"`
	Duration         int64    `json:"duration,omitempty" validate:"omitempty,min=1000"`
}

// IntervalOrDefault returns the configured interval, or fallback when unset.
func (c SimulationConfig) IntervalOrDefault(fallback time.Duration) time.Duration {
	if c.Interval <= 0 {
		return fallback
	}
	return time.Duration(c.Interval) * time.Millisecond
}

// DurationOrDefault returns the configured duration, or fallback when unset.
func (c SimulationConfig) DurationOrDefault(fallback time.Duration) time.Duration {
	if c.Duration <= 0 {
		return fallback
	}
	return time.Duration(c.Duration) * time.Millisecond
}
