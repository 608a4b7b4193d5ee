// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package schema

import (
	"time"

	"github.com/google/uuid"

	"github.com/signalcast/signalcast/internal/models"
)

// Sample returns a recommendation that passes validation. Served by the
// sample endpoint so clients can see the expected wire shape.
func Sample() models.CampaignRecommendation {
	now := time.Now()
	return models.CampaignRecommendation{
		ID:        "rec_" + uuid.NewString(),
		Timestamp: models.FormatTimestamp(now),
		Audience: models.AudienceSegment{
			SegmentID: "high-intent-customers",
			Name:      "High Intent Customers",
			Filters:   map[string]any{"purchase_intent": "high", "recency": "7d"},
		},
		Reasoning: models.Reasoning{
			Signals: []string{"cart_abandonment", "product_view"},
			Score:   0.87,
			Explain: "high urgency audience matched to High Intent Customers based on cart_abandonment",
		},
		ChannelPlan: []models.ChannelPlanEntry{
			{
				Channel:  models.ChannelSMS,
				SendAt:   models.FormatTimestamp(now.Add(time.Minute)),
				Priority: 1,
				Payload: models.ChannelPayload{
					Title: "Don't miss out",
					Body:  "Your cart is waiting. Complete your purchase before these items sell out.",
					CTA: map[string]any{
						"label": "Shop Now",
						"url":   "https://shop.example.com/offers",
					},
					Metadata: map[string]any{"segment": "high-intent-customers", "urgency": "high"},
				},
				DeliveryInstructions: models.DeliveryInstructions{
					RetryPolicy: "exponential_backoff",
					TimeoutSec:  30,
				},
			},
			{
				Channel:  models.ChannelEmail,
				SendAt:   models.FormatTimestamp(now.Add(5 * time.Minute)),
				Priority: 2,
				Payload: models.ChannelPayload{
					Subject: "Complete your purchase today",
					Body:    "Your cart is waiting. Complete your purchase before these items sell out.",
					CTA: map[string]any{
						"label": "Shop Now",
						"url":   "https://shop.example.com/offers",
					},
					Metadata: map[string]any{"segment": "high-intent-customers", "urgency": "high"},
				},
				DeliveryInstructions: models.DeliveryInstructions{
					RetryPolicy: "linear",
					TimeoutSec:  30,
				},
			},
		},
		CampaignMeta: models.CampaignMeta{
			SourceSnapshot: map[string]map[string]any{
				"website": {"cart_abandonment": map[string]any{"cart_value": 150, "items_count": 3}},
			},
			EngineVersion: "v1.0-decision-engine",
			Confidence:    0.9,
			SignalCount:   2,
			UrgencyLevel:  "high",
			AIEnhanced:    true,
			AIConfidence:  0.91,
		},
	}
}
