// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalcast/signalcast/internal/engine"
	"github.com/signalcast/signalcast/internal/gateway"
	"github.com/signalcast/signalcast/internal/hub"
	"github.com/signalcast/signalcast/internal/models"
	"github.com/signalcast/signalcast/internal/schema"
	"github.com/signalcast/signalcast/internal/sources"
	"github.com/signalcast/signalcast/internal/stream"
)

// envelope mirrors models.APIResponse with raw data for per-test decoding.
type envelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv, _ := testServerWithRegistry(t)
	return srv
}

func testServerWithRegistry(t *testing.T) (*httptest.Server, *sources.Registry) {
	t.Helper()

	registry := sources.NewRegistry()
	mock := sources.NewMockGenerator()
	gw := gateway.New(registry, mock, gateway.DefaultOptions())
	eng := engine.New(gw)
	validator := schema.NewValidator()
	h := hub.NewHub(hub.DefaultOptions(), nil)
	streamer := stream.NewStreamer(h, eng, validator, stream.DefaultOptions())
	h.SetListener(streamer)

	handler := NewHandler(registry, gw, eng, validator, h, streamer)
	mwCfg := DefaultMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	router := NewRouter(handler, mwCfg)

	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv, registry
}

func doRequest(t *testing.T, method, url string, body any) (*http.Response, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t)

	resp, env := doRequest(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", env.Status)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "ok", data["status"])
	assert.EqualValues(t, 6, data["sources"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListSources(t *testing.T) {
	srv := testServer(t)

	resp, env := doRequest(t, http.MethodGet, srv.URL+"/api/sources", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var views []sourceView
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 6)

	assert.Equal(t, "website", views[0].ID)
	for _, v := range views {
		assert.True(t, v.Enabled, "sources default to enabled")
		assert.Equal(t, sources.TypeMocked, v.ConfiguredType)
	}
}

func TestUpdateSourceConfig(t *testing.T) {
	srv := testServer(t)

	body := sources.Config{
		Type:    sources.TypeRealAPI,
		Enabled: true,
		API:     &sources.APIConfig{Endpoint: "https://api.example.com/v1/events"},
	}
	resp, env := doRequest(t, http.MethodPut, srv.URL+"/api/sources/website/config", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", env.Status)
}

func TestUpdateSourceConfigUnknownSource(t *testing.T) {
	srv := testServer(t)

	body := sources.Config{Type: sources.TypeMocked, Enabled: true}
	resp, env := doRequest(t, http.MethodPut, srv.URL+"/api/sources/myspace/config", body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNKNOWN_SOURCE", env.Error.Code)
}

func TestUpdateSourceConfigRejectsBadType(t *testing.T) {
	srv := testServer(t)

	resp, env := doRequest(t, http.MethodPut, srv.URL+"/api/sources/website/config",
		map[string]any{"type": "carrier_pigeon", "enabled": true})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestSourcesHealth(t *testing.T) {
	srv := testServer(t)

	resp, env := doRequest(t, http.MethodGet, srv.URL+"/api/sources/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]gateway.SourceHealth
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Len(t, health, 6)
	assert.Equal(t, "healthy", health["website"].HealthStatus)
}

func TestResetSource(t *testing.T) {
	srv := testServer(t)

	resp, env := doRequest(t, http.MethodPost, srv.URL+"/api/sources/website/reset", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", env.Status)

	resp, _ = doRequest(t, http.MethodPost, srv.URL+"/api/sources/myspace/reset", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTestSourceMocked(t *testing.T) {
	srv := testServer(t)

	resp, env := doRequest(t, http.MethodPost, srv.URL+"/api/sources/website/test", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, true, data["success"])
}

func TestRecommend(t *testing.T) {
	srv := testServer(t)

	resp, env := doRequest(t, http.MethodPost, srv.URL+"/api/recommend",
		map[string]any{"selectedSources": []string{"website"}, "selectedChannels": []string{"Email", "SMS"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Recommendation map[string]any `json:"recommendation"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Recommendation["id"])
	assert.NotEmpty(t, data.Recommendation["channel_plan"])
}

func TestRecommendSkipsDisabledSource(t *testing.T) {
	srv, registry := testServerWithRegistry(t)
	require.NoError(t, registry.SetEnabled("website", false))

	resp, env := doRequest(t, http.MethodPost, srv.URL+"/api/recommend",
		map[string]any{"selectedSources": []string{"website"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Recommendation map[string]any `json:"recommendation"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	// The only selected source is disabled, so no signals reach the engine
	// and the demo generator serves the response instead.
	meta := data.Recommendation["campaign_meta"].(map[string]any)
	assert.Equal(t, "v0.1-demo", meta["engine_version"])
	snapshot := meta["source_snapshot"].(map[string]any)
	assert.NotContains(t, snapshot, "website")
}

func TestRecommendEmptyBody(t *testing.T) {
	srv := testServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/recommend", http.NoBody)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRecommendRejectsBadChannel(t *testing.T) {
	srv := testServer(t)

	resp, env := doRequest(t, http.MethodPost, srv.URL+"/api/recommend",
		map[string]any{"selectedChannels": []string{"Fax"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestRecommendBatch(t *testing.T) {
	srv := testServer(t)

	resp, env := doRequest(t, http.MethodPost, srv.URL+"/api/recommend/batch",
		map[string]any{"count": 3})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Count           int              `json:"count"`
		Recommendations []map[string]any `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 3, data.Count)
	require.Len(t, data.Recommendations, 3)
}

func TestRecommendBatchBounds(t *testing.T) {
	srv := testServer(t)

	resp, _ := doRequest(t, http.MethodPost, srv.URL+"/api/recommend/batch", map[string]any{"count": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodPost, srv.URL+"/api/recommend/batch", map[string]any{"count": 51})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValidateEndpoint(t *testing.T) {
	srv := testServer(t)

	resp, env := doRequest(t, http.MethodPost, srv.URL+"/api/validate", schema.Sample())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result schema.Result
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.Valid)

	_, env = doRequest(t, http.MethodPost, srv.URL+"/api/validate", map[string]any{})
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
}

func TestValidateBatchEndpoint(t *testing.T) {
	srv := testServer(t)

	resp, env := doRequest(t, http.MethodPost, srv.URL+"/api/validate/batch",
		map[string]any{"documents": []any{schema.Sample(), map[string]any{}}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Count   int             `json:"count"`
		Results []schema.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, 2, data.Count)
	assert.True(t, data.Results[0].Valid)
	assert.False(t, data.Results[1].Valid)
}

func TestValidateStatsAndReset(t *testing.T) {
	srv := testServer(t)

	doRequest(t, http.MethodPost, srv.URL+"/api/validate", schema.Sample())
	doRequest(t, http.MethodPost, srv.URL+"/api/validate", map[string]any{})

	_, env := doRequest(t, http.MethodGet, srv.URL+"/api/validate/stats", nil)
	var stats schema.Stats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 2, stats.TotalValidations)
	assert.Equal(t, 1, stats.ValidCount)
	assert.Equal(t, 1, stats.InvalidCount)

	resp, _ := doRequest(t, http.MethodPost, srv.URL+"/api/validate/stats/reset", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, env = doRequest(t, http.MethodGet, srv.URL+"/api/validate/stats", nil)
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Zero(t, stats.TotalValidations)
}

func TestValidateSampleIsValid(t *testing.T) {
	srv := testServer(t)

	_, env := doRequest(t, http.MethodGet, srv.URL+"/api/validate/sample", nil)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &doc))

	_, result := doRequest(t, http.MethodPost, srv.URL+"/api/validate", doc)
	var res schema.Result
	require.NoError(t, json.Unmarshal(result.Data, &res))
	assert.True(t, res.Valid)
}

func TestStreamStats(t *testing.T) {
	srv := testServer(t)

	resp, env := doRequest(t, http.MethodGet, srv.URL+"/api/stream/stats", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stats streamStatsView
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Zero(t, stats.TotalClients)
	assert.True(t, stats.GlobalStreamingActive)
}

func TestGlobalStreamControl(t *testing.T) {
	srv := testServer(t)

	resp, env := doRequest(t, http.MethodPost, srv.URL+"/api/stream/global/stop", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, false, data["globalStreamingActive"])

	_, env = doRequest(t, http.MethodPost, srv.URL+"/api/stream/global/start",
		map[string]any{"interval": 2000, "batchSize": 2, "channels": []string{"Email"}})
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, true, data["globalStreamingActive"])
}

func TestGlobalStreamStartRejectsBadInterval(t *testing.T) {
	srv := testServer(t)

	resp, _ := doRequest(t, http.MethodPost, srv.URL+"/api/stream/global/start",
		map[string]any{"interval": 10})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRateLimiting(t *testing.T) {
	registry := sources.NewRegistry()
	mock := sources.NewMockGenerator()
	gw := gateway.New(registry, mock, gateway.DefaultOptions())
	eng := engine.New(gw)
	validator := schema.NewValidator()
	h := hub.NewHub(hub.DefaultOptions(), nil)
	streamer := stream.NewStreamer(h, eng, validator, stream.DefaultOptions())

	handler := NewHandler(registry, gw, eng, validator, h, streamer)
	mwCfg := DefaultMiddlewareConfig()
	mwCfg.RateLimitRequests = 2
	mwCfg.RateLimitWindow = time.Minute
	router := NewRouter(handler, mwCfg)

	srv := httptest.NewServer(router.Setup())
	defer srv.Close()

	var last int
	for i := 0; i < 4; i++ {
		resp, err := http.Get(srv.URL + "/api/sources")
		require.NoError(t, err)
		_ = resp.Body.Close()
		last = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
