// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package sources

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalcast/signalcast/internal/models"
)

func TestCatalogLookup(t *testing.T) {
	defs := Catalog()
	require.Len(t, defs, 6)

	ids := make(map[string]bool, len(defs))
	for _, d := range defs {
		ids[d.ID] = true
		assert.Equal(t, TypeMocked, d.Type, "catalog sources default to mocked")
		assert.NotEmpty(t, d.Name)
	}
	for _, want := range []string{"website", "shopify", "facebook_page", "google_tag_manager", "google_ads_tag", "crm_system"} {
		assert.True(t, ids[want], "catalog missing %s", want)
	}

	d, ok := Lookup("website")
	require.True(t, ok)
	assert.Equal(t, "Website Events", d.Name)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestRegistryDefaults(t *testing.T) {
	r := NewRegistry()

	cfg, ok := r.Config("website")
	require.True(t, ok)
	assert.Equal(t, TypeMocked, cfg.Type)
	assert.True(t, cfg.Enabled)
	assert.Nil(t, cfg.API)

	snap := r.Snapshot()
	assert.Len(t, snap, 6)
}

func TestRegistrySetConfig(t *testing.T) {
	r := NewRegistry()

	err := r.SetConfig("shopify", Config{
		Type:    TypeRealAPI,
		Enabled: true,
		API:     &APIConfig{Endpoint: "https://shop.example.com/api"},
	})
	require.NoError(t, err)

	cfg, ok := r.Config("shopify")
	require.True(t, ok)
	assert.Equal(t, TypeRealAPI, cfg.Type)
	require.NotNil(t, cfg.API)
	assert.Equal(t, "https://shop.example.com/api", cfg.API.Endpoint)

	err = r.SetConfig("unknown", Config{Type: TypeMocked})
	assert.Error(t, err)
}

func TestRegistrySetEnabled(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.SetEnabled("crm_system", false))
	cfg, _ := r.Config("crm_system")
	assert.False(t, cfg.Enabled)
	assert.Equal(t, TypeMocked, cfg.Type, "toggling enabled leaves type intact")

	assert.Error(t, r.SetEnabled("unknown", true))
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = r.SetEnabled("website", n%2 == 0)
				_, _ = r.Config("website")
				_ = r.Snapshot()
			}
		}(i)
	}
	wg.Wait()
}

func TestMockGeneratorSignals(t *testing.T) {
	gen := NewMockGenerator(
		WithRand(rand.New(rand.NewSource(42))),
		WithClock(func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }),
	)

	for i := 0; i < 20; i++ {
		signals := gen.Signals("website")
		require.NotEmpty(t, signals)
		require.LessOrEqual(t, len(signals), 3)

		for _, s := range signals {
			assert.NotEmpty(t, s.ID)
			assert.Equal(t, "website", s.Source)
			assert.GreaterOrEqual(t, s.Confidence, 0.6)
			assert.LessOrEqual(t, s.Confidence, 1.0)
			assert.True(t, models.IsCanonicalTimestamp(s.Timestamp), "timestamp %q not canonical", s.Timestamp)

			ts, err := time.Parse(models.TimestampLayout, s.Timestamp)
			require.NoError(t, err)
			age := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Sub(ts)
			assert.GreaterOrEqual(t, age, time.Duration(0))
			assert.Less(t, age, time.Hour)
		}
	}
}

func TestMockGeneratorKnownTemplateWeights(t *testing.T) {
	gen := NewMockGenerator(WithRand(rand.New(rand.NewSource(1))))

	weights := map[string]float64{}
	for i := 0; i < 50; i++ {
		for _, s := range gen.Signals("website") {
			weights[s.Type] = s.Weight
		}
	}

	assert.Equal(t, 0.9, weights["cart_abandonment"])
	if w, ok := weights["product_view"]; ok {
		assert.Equal(t, 0.6, w)
	}
}

func TestMockGeneratorUnknownSource(t *testing.T) {
	gen := NewMockGenerator(WithRand(rand.New(rand.NewSource(7))))

	signals := gen.Signals("mystery")
	require.Len(t, signals, 1)
	assert.Equal(t, "generic_activity", signals[0].Type)
	assert.Equal(t, 0.4, signals[0].Weight)
	assert.Equal(t, "mystery", signals[0].Data["source"])
}

func TestMockGeneratorDeterministicWithSeed(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	a := NewMockGenerator(WithRand(rand.New(rand.NewSource(99))), WithClock(now))
	b := NewMockGenerator(WithRand(rand.New(rand.NewSource(99))), WithClock(now))

	sa := a.Signals("shopify")
	sb := b.Signals("shopify")
	require.Equal(t, len(sa), len(sb))
	for i := range sa {
		assert.Equal(t, sa[i].Type, sb[i].Type)
		assert.Equal(t, sa[i].Confidence, sb[i].Confidence)
		assert.Equal(t, sa[i].Timestamp, sb[i].Timestamp)
	}
}

func TestMockGeneratorEvents(t *testing.T) {
	gen := NewMockGenerator(WithRand(rand.New(rand.NewSource(5))))

	events := gen.Events("crm_system")
	require.NotEmpty(t, events)
	for _, e := range events {
		assert.Equal(t, "crm_system", e.Source)
		assert.False(t, e.Metadata.IsRealAPI)
		assert.Equal(t, "mock_data_generator", e.Metadata.APIEndpoint)
		assert.Equal(t, "medium", e.Metadata.SourceQuality)
	}
}
