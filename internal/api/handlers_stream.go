// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package api

import (
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/signalcast/signalcast/internal/hub"
	"github.com/signalcast/signalcast/internal/stream"
)

// GlobalStartRequest reshapes the global broadcast stream. All fields are
// optional; interval is milliseconds on the wire.
type GlobalStartRequest struct {
	Interval  int64    `json:"interval" validate:"omitempty,gte=1000,lte=60000"`
	BatchSize int      `json:"batchSize" validate:"omitempty,min=1,max=10"`
	Sources   []string `json:"sources" validate:"omitempty,dive,source_id"`
	Channels  []string `json:"channels" validate:"omitempty,dive,channel"`
}

// streamStatsView is the stats shape served to clients.
type streamStatsView struct {
	TotalClients          int                   `json:"totalClients"`
	ActiveClients         int                   `json:"activeClients"`
	ActiveSimulations     int                   `json:"activeSimulations"`
	ClientSpecificStreams int                   `json:"clientSpecificStreams"`
	GlobalStreamingActive bool                  `json:"globalStreamingActive"`
	GlobalTicks           int64                 `json:"globalTicks"`
	MessagesSent          int64                 `json:"messagesSent"`
	Connections           []hub.ConnectionState `json:"connections"`
}

// StreamStats reports streaming and connection statistics.
func (h *Handler) StreamStats(w http.ResponseWriter, r *http.Request) {
	stats := h.streamer.Stats()
	respondData(w, http.StatusOK, streamStatsView{
		TotalClients:          stats.TotalClients,
		ActiveClients:         stats.ActiveSimulations,
		ActiveSimulations:     stats.ActiveSimulations,
		ClientSpecificStreams: stats.ClientStreams,
		GlobalStreamingActive: stats.GlobalEnabled,
		GlobalTicks:           stats.GlobalTicks,
		MessagesSent:          stats.MessagesSent,
		Connections:           stats.Connections,
	})
}

// GlobalStreamStart enables the global broadcast stream, optionally
// reconfiguring its cadence and scope.
func (h *Handler) GlobalStreamStart(w http.ResponseWriter, r *http.Request) {
	var req GlobalStartRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil && err != io.EOF {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON", nil)
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	h.streamer.GlobalStart(stream.GlobalConfig{
		Interval:  time.Duration(req.Interval) * time.Millisecond,
		BatchSize: req.BatchSize,
		Sources:   req.Sources,
		Channels:  req.Channels,
	})

	respondData(w, http.StatusOK, map[string]any{"globalStreamingActive": true})
}

// GlobalStreamStop disables the global broadcast stream. Per-client
// simulations keep running.
func (h *Handler) GlobalStreamStop(w http.ResponseWriter, r *http.Request) {
	h.streamer.GlobalStop()
	respondData(w, http.StatusOK, map[string]any{"globalStreamingActive": false})
}
