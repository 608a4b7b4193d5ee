// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package api

import (
	"net/http"

	"github.com/signalcast/signalcast/internal/schema"
)

// ValidateBatchRequest carries the documents for batch validation.
type ValidateBatchRequest struct {
	Documents []any `json:"documents" validate:"required,min=1,max=100"`
}

// Validate checks one document against the recommendation schema.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var doc any
	if !decodeJSON(w, r, &doc) {
		return
	}

	result := h.validator.Validate(doc)
	respondData(w, http.StatusOK, result)
}

// ValidateBatch checks every document independently and returns results in
// input order.
func (h *Handler) ValidateBatch(w http.ResponseWriter, r *http.Request) {
	var req ValidateBatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	results := h.validator.ValidateBatch(req.Documents)
	respondData(w, http.StatusOK, map[string]any{
		"count":   len(results),
		"results": results,
	})
}

// ValidateStats returns cumulative validation statistics.
func (h *Handler) ValidateStats(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, h.validator.Stats())
}

// ResetValidateStats zeroes the validation statistics.
func (h *Handler) ResetValidateStats(w http.ResponseWriter, r *http.Request) {
	h.validator.ResetStats()
	respondData(w, http.StatusOK, map[string]any{"reset": true})
}

// ValidateSample returns a canonical valid recommendation document, useful
// for exercising the validator and as a client reference.
func (h *Handler) ValidateSample(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, schema.Sample())
}
