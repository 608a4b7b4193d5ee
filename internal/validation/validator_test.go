// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type simulateRequest struct {
	SelectedSources  []string `validate:"required,min=1,dive,source_id"`
	SelectedChannels []string `validate:"required,min=1,dive,channel"`
	Interval         int64    `validate:"omitempty,gte=1000,lte=60000"`
	Duration         int64    `validate:"omitempty,gte=1000,lte=3600000"`
}

func TestGetValidatorSingleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()
	require.NotNil(t, v1)
	assert.Same(t, v1, v2)
}

func TestValidateStructValid(t *testing.T) {
	req := simulateRequest{
		SelectedSources:  []string{"website", "shopify"},
		SelectedChannels: []string{"Email", "SMS"},
		Interval:         3000,
		Duration:         60000,
	}
	assert.Nil(t, ValidateStruct(&req))
}

func TestValidateStructRequired(t *testing.T) {
	verr := ValidateStruct(&simulateRequest{})
	require.NotNil(t, verr)

	fields := map[string]bool{}
	for _, e := range verr.Errors() {
		fields[e.Field()] = true
	}
	assert.True(t, fields["SelectedSources"])
	assert.True(t, fields["SelectedChannels"])
}

func TestChannelValidator(t *testing.T) {
	req := simulateRequest{
		SelectedSources:  []string{"website"},
		SelectedChannels: []string{"Email", "CarrierPigeon"},
	}
	verr := ValidateStruct(&req)
	require.NotNil(t, verr)
	require.Len(t, verr.Errors(), 1)

	e := verr.Errors()[0]
	assert.Equal(t, "channel", e.Tag())
	assert.Equal(t, "CarrierPigeon", e.Value())
	assert.Contains(t, e.Error(), "supported delivery channel")
}

func TestSourceIDValidator(t *testing.T) {
	req := simulateRequest{
		SelectedSources:  []string{"myspace_page"},
		SelectedChannels: []string{"Email"},
	}
	verr := ValidateStruct(&req)
	require.NotNil(t, verr)
	require.Len(t, verr.Errors(), 1)

	e := verr.Errors()[0]
	assert.Equal(t, "source_id", e.Tag())
	assert.Contains(t, e.Error(), "known data source")
}

func TestRangeTranslation(t *testing.T) {
	req := simulateRequest{
		SelectedSources:  []string{"website"},
		SelectedChannels: []string{"Email"},
		Interval:         100,
	}
	verr := ValidateStruct(&req)
	require.NotNil(t, verr)
	require.Len(t, verr.Errors(), 1)
	assert.Equal(t, "Interval must be greater than or equal to 1000", verr.Errors()[0].Error())
}

func TestToAPIErrorSingle(t *testing.T) {
	req := simulateRequest{
		SelectedSources:  []string{"website"},
		SelectedChannels: []string{"Fax"},
	}
	verr := ValidateStruct(&req)
	require.NotNil(t, verr)

	apiErr := verr.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Message, "supported delivery channel")
	assert.Equal(t, "channel", apiErr.Details["tag"])
}

func TestToAPIErrorMultiple(t *testing.T) {
	verr := ValidateStruct(&simulateRequest{})
	require.NotNil(t, verr)
	require.Greater(t, len(verr.Errors()), 1)

	apiErr := verr.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	require.True(t, ok)
	assert.Len(t, fields, len(verr.Errors()))
}

func TestErrorJoinsMessages(t *testing.T) {
	verr := ValidateStruct(&simulateRequest{})
	require.NotNil(t, verr)
	assert.Contains(t, verr.Error(), "; ")
}
