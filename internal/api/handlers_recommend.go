// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package api

import (
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/signalcast/signalcast/internal/models"
)

// RecommendRequest scopes an on-demand generation cycle. Both lists are
// optional; empty means all sources and all channels.
type RecommendRequest struct {
	SelectedSources  []string `json:"selectedSources" validate:"omitempty,dive,source_id"`
	SelectedChannels []string `json:"selectedChannels" validate:"omitempty,dive,channel"`
}

// BatchRecommendRequest asks for count recommendations in one call.
type BatchRecommendRequest struct {
	Count            int      `json:"count" validate:"required,min=1,max=50"`
	SelectedSources  []string `json:"selectedSources" validate:"omitempty,dive,source_id"`
	SelectedChannels []string `json:"selectedChannels" validate:"omitempty,dive,channel"`
}

// Recommend runs one engine cycle and returns the sanitized result. When the
// sanitizer had to repair the document the response includes the changes.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil && err != io.EOF {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON", nil)
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	cfg := models.SimulationConfig{
		SelectedSources:  req.SelectedSources,
		SelectedChannels: req.SelectedChannels,
	}
	rec := h.generator.Generate(r.Context(), cfg)

	doc, changes, err := h.validator.Sanitize(rec)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "GENERATION_FAILED", "could not produce a valid recommendation", nil)
		return
	}

	payload := map[string]any{"recommendation": doc}
	if len(changes) > 0 {
		payload["changes"] = changes
	}
	respondData(w, http.StatusOK, payload)
}

// RecommendBatch runs up to maxBatchCount engine cycles and returns the
// sanitized results in order.
func (h *Handler) RecommendBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRecommendRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	cfg := models.SimulationConfig{
		SelectedSources:  req.SelectedSources,
		SelectedChannels: req.SelectedChannels,
	}

	recommendations := make([]any, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		if r.Context().Err() != nil {
			break
		}
		rec := h.generator.Generate(r.Context(), cfg)
		doc, _, err := h.validator.Sanitize(rec)
		if err != nil {
			continue
		}
		recommendations = append(recommendations, doc)
	}

	respondData(w, http.StatusOK, map[string]any{
		"count":           len(recommendations),
		"recommendations": recommendations,
	})
}
