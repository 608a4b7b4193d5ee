// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package api

import (
	"net/http"
	"time"

	"github.com/signalcast/signalcast/internal/gateway"
	"github.com/signalcast/signalcast/internal/hub"
	"github.com/signalcast/signalcast/internal/schema"
	"github.com/signalcast/signalcast/internal/sources"
	"github.com/signalcast/signalcast/internal/stream"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	registry  *sources.Registry
	gateway   *gateway.Gateway
	generator stream.Generator
	validator *schema.Validator
	hub       *hub.Hub
	streamer  *stream.Streamer
	startedAt time.Time
}

// NewHandler creates the handler set. All dependencies are required.
func NewHandler(
	registry *sources.Registry,
	gw *gateway.Gateway,
	generator stream.Generator,
	validator *schema.Validator,
	h *hub.Hub,
	streamer *stream.Streamer,
) *Handler {
	return &Handler{
		registry:  registry,
		gateway:   gw,
		generator: generator,
		validator: validator,
		hub:       h,
		streamer:  streamer,
		startedAt: time.Now(),
	}
}

// Health reports process liveness plus coarse component state.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]any{
		"status":            "ok",
		"uptime_seconds":    int64(time.Since(h.startedAt).Seconds()),
		"connected_clients": h.hub.ClientCount(),
		"sources":           len(sources.Catalog()),
	})
}

// WebSocket upgrades the request and hands the connection to the hub.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r)
}
