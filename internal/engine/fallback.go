// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/signalcast/signalcast/internal/models"
)

// FallbackVersion tags recommendations produced outside the full pipeline.
const FallbackVersion = "v0.1-demo"

// Demo content tables for the fallback generator.
var (
	fallbackSubjects = []string{
		"We picked these just for you",
		"Your weekly highlights are in",
		"New arrivals you might like",
	}
	fallbackBodies = []string{
		"Browse a fresh selection tailored to shoppers like you.",
		"Here is what other customers loved this week.",
		"Take another look at the products trending right now.",
	}
	fallbackSegments = []models.AudienceSegment{
		{SegmentID: "general-audience", Name: "General Audience", Filters: map[string]any{"scope": "all"}},
		{SegmentID: "engaged-browsers", Name: "Engaged Browsers", Filters: map[string]any{"engagement": "high", "recency": "30d"}},
		{SegmentID: "returning-customers", Name: "Returning Customers", Filters: map[string]any{"lifecycle": "returning", "recency": "90d"}},
	}
	fallbackChannels = []models.Channel{
		models.ChannelEmail, models.ChannelPush, models.ChannelAds,
	}
)

// FallbackGenerator produces schema-valid demo recommendations when the
// decision pipeline cannot run. Output is random but always passes the
// recommendation validator.
type FallbackGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewFallbackGenerator creates a generator sharing the engine's RNG and clock.
func NewFallbackGenerator(rng *rand.Rand, now func() time.Time) *FallbackGenerator {
	return &FallbackGenerator{rng: rng, now: now}
}

// Generate produces one demo recommendation.
func (f *FallbackGenerator) Generate() models.CampaignRecommendation {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	segment := fallbackSegments[f.rng.Intn(len(fallbackSegments))]
	segment = cloneSegment(segment)

	count := 2 + f.rng.Intn(2)
	if count > len(fallbackChannels) {
		count = len(fallbackChannels)
	}

	plan := make([]models.ChannelPlanEntry, 0, count)
	delays := sendDelays[models.UrgencyMedium]
	for i := 0; i < count; i++ {
		ch := fallbackChannels[i]
		policy := "linear"
		if i == 0 {
			policy = "exponential_backoff"
		}
		timeout := 15.0 + f.rng.Float64()*20
		if ch == models.ChannelAds {
			timeout = 3600.0
		}
		plan = append(plan, models.ChannelPlanEntry{
			Channel:  ch,
			SendAt:   models.FormatTimestamp(now.Add(delays[min(i, len(delays)-1)])),
			Priority: i + 1,
			Payload: models.ChannelPayload{
				Subject: fallbackSubjects[f.rng.Intn(len(fallbackSubjects))],
				Body:    fallbackBodies[f.rng.Intn(len(fallbackBodies))],
				CTA: map[string]any{
					"label": "Browse Offers",
					"url":   "https://shop.example.com/offers",
				},
				Metadata: map[string]any{"segment": segment.SegmentID, "demo": true},
			},
			DeliveryInstructions: models.DeliveryInstructions{RetryPolicy: policy, TimeoutSec: timeout},
		})
	}

	return models.CampaignRecommendation{
		ID:        "rec_" + uuid.NewString(),
		Timestamp: models.FormatTimestamp(now),
		Audience:  segment,
		Reasoning: models.Reasoning{
			Signals: []string{"demo_mode"},
			Score:   0.4 + f.rng.Float64()*0.3,
			Explain: "Demo recommendation generated without live signal data",
		},
		ChannelPlan: plan,
		CampaignMeta: models.CampaignMeta{
			SourceSnapshot: map[string]map[string]any{},
			EngineVersion:  FallbackVersion,
			Confidence:     0.5,
		},
	}
}
