// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package models

import "time"

// TimestampLayout is the canonical wire format for all timestamps: UTC with
// millisecond precision and a literal Z suffix. Every timestamp the system
// emits uses this layout; validation accepts any string that parses as
// RFC3339 and round-trips bit-exactly through one of the canonical layouts.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// canonicalLayouts are the accepted round-trip layouts for timestamp
// validation. The first entry is the emission format.
var canonicalLayouts = []string{
	TimestampLayout,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05.999999999Z",
}

// FormatTimestamp renders t in the canonical wire layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// IsCanonicalTimestamp reports whether s is a valid wire timestamp: it must
// parse as RFC3339 and re-serialize to exactly the same string under one of
// the canonical UTC layouts.
func IsCanonicalTimestamp(s string) bool {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return false
	}
	u := t.UTC()
	for _, layout := range canonicalLayouts {
		if u.Format(layout) == s {
			return true
		}
	}
	return false
}

// Channel identifies a communication channel in a channel plan.
type Channel string

// Supported channels. The validator rejects anything outside this set.
const (
	ChannelEmail     Channel = "Email"
	ChannelPush      Channel = "Push"
	ChannelWhatsApp  Channel = "WhatsApp"
	ChannelAds       Channel = "Ads"
	ChannelSMS       Channel = "SMS"
	ChannelMessenger Channel = "Messenger"
	ChannelVoice     Channel = "Voice"
)

// AllChannels lists the supported channels in declaration order.
var AllChannels = []Channel{
	ChannelEmail, ChannelPush, ChannelWhatsApp, ChannelAds,
	ChannelSMS, ChannelMessenger, ChannelVoice,
}

// IsValidChannel reports whether s names a supported channel.
func IsValidChannel(s string) bool {
	for _, c := range AllChannels {
		if string(c) == s {
			return true
		}
	}
	return false
}

// AudienceSegment is a selected (not computed) audience definition. Segments
// come from a fixed catalog; filters are opaque descriptors for the consumer.
type AudienceSegment struct {
	SegmentID string         `json:"segment_id"`
	Name      string         `json:"name"`
	Filters   map[string]any `json:"filters"`
}

// Reasoning explains why a recommendation was produced.
type Reasoning struct {
	Signals []string `json:"signals"`
	Score   float64  `json:"score"`
	Explain string   `json:"explain"`
}

// ChannelPayload is the message content for a single channel dispatch.
type ChannelPayload struct {
	Subject  string         `json:"subject,omitempty"`
	Title    string         `json:"title,omitempty"`
	Body     string         `json:"body"`
	CTA      map[string]any `json:"cta"`
	Metadata map[string]any `json:"metadata"`
}

// DeliveryInstructions describe how a channel dispatch should be retried.
type DeliveryInstructions struct {
	RetryPolicy string  `json:"retry_policy"`
	TimeoutSec  float64 `json:"timeout_sec"`
}

// ChannelPlanEntry is one ordered dispatch instruction in a channel plan.
// Priority is the 1-based rank within the plan (1 = first to send).
type ChannelPlanEntry struct {
	Channel              Channel              `json:"channel"`
	SendAt               string               `json:"send_at"`
	Priority             int                  `json:"priority"`
	Payload              ChannelPayload       `json:"payload"`
	DeliveryInstructions DeliveryInstructions `json:"delivery_instructions"`
}

// CampaignMeta carries provenance for a recommendation. SourceSnapshot groups
// signal data by source then signal type. Fields beyond the required three
// are advisory and ignored by the validator.
type CampaignMeta struct {
	SourceSnapshot map[string]map[string]any `json:"source_snapshot"`
	EngineVersion  string                    `json:"engine_version"`
	Confidence     float64                   `json:"confidence"`
	SignalCount    int                       `json:"signal_count,omitempty"`
	UrgencyLevel   string                    `json:"urgency_level,omitempty"`
	AIEnhanced     bool                      `json:"ai_enhanced,omitempty"`
	AIConfidence   float64                   `json:"ai_confidence,omitempty"`
	ProcessingTime int64                     `json:"processing_time,omitempty"`
}

// CampaignRecommendation is the wire artifact pushed to subscribed clients.
// A recommendation is immutable once assembled; the validator's sanitize path
// produces a corrected copy rather than mutating in place.
type CampaignRecommendation struct {
	ID           string             `json:"id"`
	Timestamp    string             `json:"timestamp"`
	Audience     AudienceSegment    `json:"audience"`
	Reasoning    Reasoning          `json:"reasoning"`
	ChannelPlan  []ChannelPlanEntry `json:"channel_plan"`
	CampaignMeta CampaignMeta       `json:"campaign_meta"`
}
