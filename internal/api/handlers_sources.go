// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/signalcast/signalcast/internal/sources"
)

// sourceView joins a catalog definition with its live configuration.
type sourceView struct {
	sources.Definition
	Enabled        bool               `json:"enabled"`
	ConfiguredType sources.SourceType `json:"configuredType"`
	HasAPIConfig   bool               `json:"hasApiConfig"`
}

// Sources lists the catalog with each source's current configuration.
func (h *Handler) Sources(w http.ResponseWriter, r *http.Request) {
	defs := sources.Catalog()
	views := make([]sourceView, 0, len(defs))
	for _, d := range defs {
		view := sourceView{Definition: d}
		if cfg, ok := h.registry.Config(d.ID); ok {
			view.Enabled = cfg.Enabled
			view.ConfiguredType = cfg.Type
			view.HasAPIConfig = cfg.API != nil
		}
		views = append(views, view)
	}
	respondData(w, http.StatusOK, views)
}

// UpdateSourceConfig replaces the configuration of one source.
func (h *Handler) UpdateSourceConfig(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var cfg sources.Config
	if !decodeJSON(w, r, &cfg) {
		return
	}
	if !validateRequest(w, &cfg) {
		return
	}

	if err := h.registry.SetConfig(id, cfg); err != nil {
		respondError(w, http.StatusNotFound, "UNKNOWN_SOURCE", err.Error(), nil)
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"id":     id,
		"config": cfg,
	})
}

// SourcesHealth reports the gateway's view of every source.
func (h *Handler) SourcesHealth(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, h.gateway.HealthSnapshot())
}

// ResetSource clears accumulated failure state for one source.
func (h *Handler) ResetSource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := sources.Lookup(id); !ok {
		respondError(w, http.StatusNotFound, "UNKNOWN_SOURCE", "unknown data source", nil)
		return
	}

	h.gateway.ResetFailures(id)
	health, _ := h.gateway.Health(id)
	respondData(w, http.StatusOK, map[string]any{
		"id":     id,
		"health": health,
	})
}

// TestSource performs one connection test against a source without touching
// its failure state.
func (h *Handler) TestSource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := sources.Lookup(id); !ok {
		respondError(w, http.StatusNotFound, "UNKNOWN_SOURCE", "unknown data source", nil)
		return
	}

	if err := h.gateway.TestConnection(r.Context(), id); err != nil {
		respondData(w, http.StatusOK, map[string]any{
			"id":      id,
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"id":      id,
		"success": true,
	})
}
