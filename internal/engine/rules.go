// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package engine

import (
	"sort"

	"github.com/signalcast/signalcast/internal/models"
)

// ConditionKind enumerates the supported rule predicates. Conditions are a
// closed set of tagged variants, not an expression language.
type ConditionKind string

const (
	ConditionUrgencyEquals ConditionKind = "urgency_equals"
	ConditionSegmentEquals ConditionKind = "segment_equals"
)

// Condition is one rule predicate over the aggregation outcome.
type Condition struct {
	Kind  ConditionKind `json:"kind"`
	Value string        `json:"value"`
}

// Matches evaluates the condition against a snapshot and selected segment.
// Unknown kinds never match.
func (c Condition) Matches(agg models.AggregatedSignals, segment models.AudienceSegment) bool {
	switch c.Kind {
	case ConditionUrgencyEquals:
		return string(agg.UrgencyLevel) == c.Value
	case ConditionSegmentEquals:
		return segment.SegmentID == c.Value
	default:
		return false
	}
}

// Rule binds a condition to the channels it boosts. Higher priority rules are
// consulted first; only the first matching enabled rule contributes to a
// given channel's score.
type Rule struct {
	ID        string           `json:"id"`
	Priority  int              `json:"priority"`
	Enabled   bool             `json:"enabled"`
	Condition Condition        `json:"condition"`
	Channels  []models.Channel `json:"channels"`
}

// DefaultRules returns the built-in channel rule table.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:        "high-urgency-immediate",
			Priority:  10,
			Enabled:   true,
			Condition: Condition{Kind: ConditionUrgencyEquals, Value: "high"},
			Channels:  []models.Channel{models.ChannelSMS, models.ChannelPush, models.ChannelWhatsApp},
		},
		{
			ID:        "engaged-browser-email",
			Priority:  8,
			Enabled:   true,
			Condition: Condition{Kind: ConditionSegmentEquals, Value: "engaged-browsers"},
			Channels:  []models.Channel{models.ChannelEmail, models.ChannelMessenger},
		},
		{
			ID:        "returning-customer-personal",
			Priority:  7,
			Enabled:   true,
			Condition: Condition{Kind: ConditionSegmentEquals, Value: "returning-customers"},
			Channels:  []models.Channel{models.ChannelWhatsApp, models.ChannelVoice, models.ChannelEmail},
		},
		{
			ID:        "low-urgency-nurture",
			Priority:  5,
			Enabled:   true,
			Condition: Condition{Kind: ConditionUrgencyEquals, Value: "low"},
			Channels:  []models.Channel{models.ChannelEmail, models.ChannelAds},
		},
	}
}

// Channel affinity boosts applied after rule scoring.
var (
	immediateChannels = map[models.Channel]bool{
		models.ChannelSMS:      true,
		models.ChannelPush:     true,
		models.ChannelWhatsApp: true,
	}
	highIntentChannels = map[models.Channel]bool{
		models.ChannelEmail:    true,
		models.ChannelWhatsApp: true,
	}
)

// ChannelScore is one ranked channel. Rank is assigned after sorting, 1-based.
type ChannelScore struct {
	Channel models.Channel
	Score   float64
	Rank    int
}

// RankChannels scores every candidate channel against the rule table and
// returns them ordered best-first. Each channel starts at 0.5; the first
// matching enabled rule that lists the channel adds priority * 0.2; high
// urgency boosts immediate channels by 0.3; the high-intent segment boosts
// personal channels by 0.2. The sort is stable, so equally scored channels
// keep their candidate order.
func RankChannels(agg models.AggregatedSignals, segment models.AudienceSegment, rules []Rule, candidates []models.Channel) []ChannelScore {
	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority > ordered[j].Priority })

	scores := make([]ChannelScore, 0, len(candidates))
	for _, ch := range candidates {
		score := 0.5

		for _, rule := range ordered {
			if !rule.Enabled || !rule.Condition.Matches(agg, segment) {
				continue
			}
			if containsChannel(rule.Channels, ch) {
				score += float64(rule.Priority) * 0.2
				break
			}
		}

		if agg.UrgencyLevel == models.UrgencyHigh && immediateChannels[ch] {
			score += 0.3
		}
		if segment.SegmentID == "high-intent-customers" && highIntentChannels[ch] {
			score += 0.2
		}

		scores = append(scores, ChannelScore{Channel: ch, Score: score})
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	for i := range scores {
		scores[i].Rank = i + 1
	}
	return scores
}

func containsChannel(channels []models.Channel, ch models.Channel) bool {
	for _, c := range channels {
		if c == ch {
			return true
		}
	}
	return false
}
