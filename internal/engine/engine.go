// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package engine

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/signalcast/signalcast/internal/logging"
	"github.com/signalcast/signalcast/internal/metrics"
	"github.com/signalcast/signalcast/internal/models"
	"github.com/signalcast/signalcast/internal/sources"
)

// EngineVersion tags recommendations produced by the full pipeline.
const EngineVersion = "v1.0-decision-engine"

// SignalCollector returns the behavioral signals for one selected source,
// honoring that source's configuration. The production implementation is the
// API gateway; tests inject a fixed-output stub.
type SignalCollector interface {
	CollectSignals(ctx context.Context, sourceID string) []models.Signal
}

// sendDelays staggers channel dispatches by urgency. Entries beyond the table
// length clamp to the last delay.
var sendDelays = map[models.UrgencyLevel][]time.Duration{
	models.UrgencyHigh:   {1 * time.Minute, 5 * time.Minute, 15 * time.Minute},
	models.UrgencyMedium: {5 * time.Minute, 15 * time.Minute, 45 * time.Minute},
	models.UrgencyLow:    {15 * time.Minute, 60 * time.Minute, 180 * time.Minute},
}

// Engine assembles campaign recommendations from source signals.
type Engine struct {
	signals  SignalCollector
	rules    []Rule
	fallback *FallbackGenerator

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand replaces the engine's RNG.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithClock replaces the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRules replaces the built-in rule table.
func WithRules(rules []Rule) Option {
	return func(e *Engine) { e.rules = rules }
}

// New creates an engine over the given signal collector.
func New(signals SignalCollector, opts ...Option) *Engine {
	e := &Engine{
		signals: signals,
		rules:   DefaultRules(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // simulation data, not crypto
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.fallback = NewFallbackGenerator(e.rng, e.now)
	return e
}

// Generate produces one recommendation for the given simulation config. It
// never returns an error: a panicking pipeline or an empty signal set yields
// a fallback recommendation instead.
func (e *Engine) Generate(ctx context.Context, cfg models.SimulationConfig) (rec models.CampaignRecommendation) {
	start := e.now()
	wallStart := time.Now()
	mode := "engine"
	defer func() {
		if r := recover(); r != nil {
			logging.Error().Interface("panic", r).Msg("Decision pipeline panicked, serving fallback recommendation")
			rec = e.fallback.Generate()
			mode = "fallback"
		}
		metrics.RecordGeneration(mode, time.Since(wallStart))
	}()

	selected := cfg.SelectedSources
	if len(selected) == 0 {
		for _, d := range sources.Catalog() {
			selected = append(selected, d.ID)
		}
	}

	var signals []models.Signal
	for _, id := range selected {
		if ctx.Err() != nil {
			break
		}
		batch := e.signals.CollectSignals(ctx, id)
		metrics.SignalsAggregated.WithLabelValues(id).Add(float64(len(batch)))
		signals = append(signals, batch...)
	}

	if len(signals) == 0 {
		logging.Warn().Msg("No signals collected, serving fallback recommendation")
		mode = "fallback"
		return e.fallback.Generate()
	}

	agg := Aggregate(signals)
	segment := SelectSegment(agg)

	candidates := candidateChannels(cfg.SelectedChannels)
	ranked := RankChannels(agg, segment, e.rules, candidates)

	now := e.now()
	plan := make([]models.ChannelPlanEntry, 0, len(ranked))
	delays := sendDelays[agg.UrgencyLevel]
	for i, cs := range ranked {
		delay := delays[min(i, len(delays)-1)]
		plan = append(plan, models.ChannelPlanEntry{
			Channel:              cs.Channel,
			SendAt:               models.FormatTimestamp(now.Add(delay)),
			Priority:             cs.Rank,
			Payload:              buildPayload(cs.Channel, segment, agg.UrgencyLevel),
			DeliveryInstructions: deliveryFor(cs.Channel, cs.Rank),
		})
	}

	rec = models.CampaignRecommendation{
		ID:          "rec_" + uuid.NewString(),
		Timestamp:   models.FormatTimestamp(now),
		Audience:    segment,
		Reasoning:   buildReasoning(agg, segment),
		ChannelPlan: plan,
		CampaignMeta: models.CampaignMeta{
			SourceSnapshot: sourceSnapshot(signals),
			EngineVersion:  EngineVersion,
			Confidence:     agg.AverageConfidence,
			SignalCount:    len(signals),
			UrgencyLevel:   string(agg.UrgencyLevel),
			ProcessingTime: e.now().Sub(start).Milliseconds(),
		},
	}
	e.enhance(&rec)
	return rec
}

// enhance applies the advisory AI annotation pass.
func (e *Engine) enhance(rec *models.CampaignRecommendation) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec.CampaignMeta.AIEnhanced = true
	rec.CampaignMeta.AIConfidence = 0.85 + e.rng.Float64()*0.10
}

// candidateChannels filters the requested channels to the supported set,
// defaulting to all channels when none were requested.
func candidateChannels(requested []string) []models.Channel {
	if len(requested) == 0 {
		return models.AllChannels
	}
	out := make([]models.Channel, 0, len(requested))
	for _, r := range requested {
		if models.IsValidChannel(r) {
			out = append(out, models.Channel(r))
		}
	}
	if len(out) == 0 {
		return models.AllChannels
	}
	return out
}

// buildReasoning explains the decision in terms of its dominant signals.
func buildReasoning(agg models.AggregatedSignals, segment models.AudienceSegment) models.Reasoning {
	named := agg.PrimaryTriggers
	if len(named) == 0 {
		seen := map[string]bool{}
		for _, s := range agg.Signals {
			if !seen[s.Type] {
				seen[s.Type] = true
				named = append(named, s.Type)
			}
		}
	}
	return models.Reasoning{
		Signals: named,
		Score:   agg.AudienceScore,
		Explain: fmt.Sprintf("%s urgency audience matched to %s based on %s",
			agg.UrgencyLevel, segment.Name, strings.Join(named, ", ")),
	}
}

// sourceSnapshot groups signal data by source then signal type for the
// campaign meta provenance block.
func sourceSnapshot(signals []models.Signal) map[string]map[string]any {
	snap := map[string]map[string]any{}
	for _, s := range signals {
		if snap[s.Source] == nil {
			snap[s.Source] = map[string]any{}
		}
		snap[s.Source][s.Type] = s.Data
	}
	return snap
}

// buildPayload renders channel-appropriate message content.
func buildPayload(ch models.Channel, segment models.AudienceSegment, urgency models.UrgencyLevel) models.ChannelPayload {
	body := fmt.Sprintf("A tailored offer for our %s audience.", strings.ToLower(segment.Name))
	if urgency == models.UrgencyHigh {
		body = "Your cart is waiting. Complete your purchase before these items sell out."
	}

	payload := models.ChannelPayload{
		Body: body,
		CTA: map[string]any{
			"label": "Shop Now",
			"url":   "https://shop.example.com/offers",
		},
		Metadata: map[string]any{
			"segment": segment.SegmentID,
			"urgency": string(urgency),
		},
	}

	switch ch {
	case models.ChannelEmail:
		payload.Subject = subjectFor(urgency)
	case models.ChannelPush, models.ChannelSMS:
		payload.Title = "Don't miss out"
	}
	return payload
}

func subjectFor(urgency models.UrgencyLevel) string {
	switch urgency {
	case models.UrgencyHigh:
		return "Complete your purchase today"
	case models.UrgencyMedium:
		return "Picked for you: offers worth a look"
	default:
		return "Discover what's new this week"
	}
}

// deliveryFor returns the retry and timeout policy for one plan entry. The
// top-ranked dispatch retries with exponential backoff; the rest are linear.
// Ads run on a much longer budget than interactive channels.
func deliveryFor(ch models.Channel, rank int) models.DeliveryInstructions {
	policy := "linear"
	if rank == 1 {
		policy = "exponential_backoff"
	}
	timeout := 30.0
	if ch == models.ChannelAds {
		timeout = 3600.0
	}
	return models.DeliveryInstructions{RetryPolicy: policy, TimeoutSec: timeout}
}
