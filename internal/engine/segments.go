// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package engine

import (
	"github.com/signalcast/signalcast/internal/models"
)

// highScoreThreshold promotes any audience into the first catalog segment
// even without a trigger match.
const highScoreThreshold = 0.8

// segmentDef couples a catalog segment with the signal types that select it.
type segmentDef struct {
	segment  models.AudienceSegment
	triggers map[string]bool
}

// segmentCatalog is the fixed segment list, checked in declaration order.
var segmentCatalog = []segmentDef{
	{
		segment: models.AudienceSegment{
			SegmentID: "high-intent-customers",
			Name:      "High Intent Customers",
			Filters:   map[string]any{"intent_score": ">= 0.8", "recent_activity": "<= 1h"},
		},
		triggers: map[string]bool{
			"cart_abandonment": true,
			"product_view":     true,
			"price_check":      true,
		},
	},
	{
		segment: models.AudienceSegment{
			SegmentID: "engaged-browsers",
			Name:      "Engaged Product Browsers",
			Filters:   map[string]any{"engagement_score": ">= 0.6", "session_duration": ">= 300s"},
		},
		triggers: map[string]bool{
			"session_extension": true,
			"multiple_products": true,
			"category_browse":   true,
		},
	},
	{
		segment: models.AudienceSegment{
			SegmentID: "returning-customers",
			Name:      "Returning Customers",
			Filters:   map[string]any{"previous_purchases": ">= 1", "last_purchase": "<= 90d"},
		},
		triggers: map[string]bool{
			"login_event":      true,
			"account_activity": true,
			"loyalty_trigger":  true,
		},
	},
}

// defaultSegment is selected when nothing else matches.
var defaultSegment = models.AudienceSegment{
	SegmentID: "general-audience",
	Name:      "General Audience",
	Filters:   map[string]any{"active_user": true},
}

// SelectSegment picks the audience for an aggregated snapshot. Segments are
// scanned in catalog order; one is selected when its triggers intersect the
// primary triggers, or outright when the audience score clears the high bar.
// Only primary triggers count: a weak signal of a catalogued type does not
// select its segment.
func SelectSegment(agg models.AggregatedSignals) models.AudienceSegment {
	primary := map[string]bool{}
	for _, t := range agg.PrimaryTriggers {
		primary[t] = true
	}

	for _, def := range segmentCatalog {
		matched := false
		for t := range primary {
			if def.triggers[t] {
				matched = true
				break
			}
		}
		if matched || agg.AudienceScore >= highScoreThreshold {
			return cloneSegment(def.segment)
		}
	}
	return cloneSegment(defaultSegment)
}

// cloneSegment deep-copies the filters map so callers cannot mutate the
// catalog through a returned segment.
func cloneSegment(s models.AudienceSegment) models.AudienceSegment {
	filters := make(map[string]any, len(s.Filters))
	for k, v := range s.Filters {
		filters[k] = v
	}
	s.Filters = filters
	return s
}
