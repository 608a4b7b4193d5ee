// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

// Package validation wraps go-playground/validator v10 behind a thread-safe
// singleton with application-specific validators and user-friendly error
// messages.
//
// Two custom tags are registered on top of the built-ins:
//
//	channel:   the value names a supported delivery channel (Email, SMS, ...)
//	source_id: the value names a data source from the catalog
//
// ValidateStruct returns a *RequestValidationError whose ToAPIError method
// produces the API's standard VALIDATION_ERROR body, so handlers validate
// and respond in two lines:
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
