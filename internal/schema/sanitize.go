// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package schema

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/signalcast/signalcast/internal/metrics"
	"github.com/signalcast/signalcast/internal/models"
)

// Default values applied by the sanitizer.
const (
	sanitizedEngineVersion = "v1.0-decision-engine"
	sanitizedRetryPolicy   = "exponential_backoff"
	sanitizedTimeoutSec    = 30.0
	sanitizedScore         = 0.5
	sanitizedSignal        = "Auto-generated reasoning"
)

// Sanitize repairs a recommendation document so it passes validation,
// returning the repaired copy and a human-readable list of applied changes.
// The repaired document is re-validated before it is returned; an error means
// either the input was not a JSON object at all or a repair branch failed to
// reach a valid document.
func (v *Validator) Sanitize(input any) (map[string]any, []string, error) {
	doc, err := Normalize(input)
	if err != nil {
		return nil, nil, err
	}

	var changes []string
	note := func(format string, args ...any) {
		changes = append(changes, fmt.Sprintf(format, args...))
	}
	now := v.now()

	if s, ok := doc["id"].(string); !ok || s == "" {
		doc["id"] = "auto_" + uuid.NewString()
		note("id: generated replacement identifier")
	}
	if s, ok := doc["timestamp"].(string); !ok || !models.IsCanonicalTimestamp(s) {
		doc["timestamp"] = models.FormatTimestamp(now)
		note("timestamp: replaced with current time")
	}

	doc["audience"] = sanitizeAudience(doc["audience"], note)
	doc["reasoning"] = sanitizeReasoning(doc["reasoning"], note)
	doc["channel_plan"] = v.sanitizeChannelPlan(doc["channel_plan"], note)
	doc["campaign_meta"] = sanitizeCampaignMeta(doc["campaign_meta"], note)

	if result := v.check(doc); !result.Valid {
		return nil, changes, fmt.Errorf("document still invalid after repair: %s", result.Errors[0])
	}

	metrics.SanitizationsTotal.Inc()
	metrics.SanitizationRepairs.Add(float64(len(changes)))
	return doc, changes, nil
}

func sanitizeAudience(v any, note func(string, ...any)) map[string]any {
	audience, ok := v.(map[string]any)
	if !ok {
		note("audience: replaced with default segment")
		return map[string]any{
			"segment_id": "general-audience",
			"name":       "General Audience",
			"filters":    map[string]any{"scope": "all"},
		}
	}
	if s, ok := audience["segment_id"].(string); !ok || s == "" {
		audience["segment_id"] = "general-audience"
		note("audience.segment_id: defaulted")
	}
	if s, ok := audience["name"].(string); !ok || s == "" {
		audience["name"] = "General Audience"
		note("audience.name: defaulted")
	}
	if _, ok := audience["filters"].(map[string]any); !ok {
		audience["filters"] = map[string]any{}
		note("audience.filters: defaulted to empty object")
	}
	return audience
}

func sanitizeReasoning(v any, note func(string, ...any)) map[string]any {
	reasoning, ok := v.(map[string]any)
	if !ok {
		note("reasoning: replaced with default reasoning")
		return map[string]any{
			"signals": []any{sanitizedSignal},
			"score":   sanitizedScore,
			"explain": "Auto-repaired recommendation",
		}
	}
	signals, ok := reasoning["signals"].([]any)
	if !ok || len(signals) == 0 {
		reasoning["signals"] = []any{sanitizedSignal}
		note("reasoning.signals: defaulted")
	} else {
		kept := make([]any, 0, len(signals))
		dropped := 0
		for _, s := range signals {
			if _, ok := s.(string); ok {
				kept = append(kept, s)
			} else {
				dropped++
			}
		}
		if dropped > 0 {
			if len(kept) == 0 {
				kept = []any{sanitizedSignal}
			}
			reasoning["signals"] = kept
			note("reasoning.signals: dropped %d non-string entries", dropped)
		}
	}
	reasoning["score"] = clampUnit(reasoning["score"], "reasoning.score", note)
	if _, ok := reasoning["explain"].(string); !ok {
		reasoning["explain"] = "Auto-repaired recommendation"
		note("reasoning.explain: defaulted")
	}
	return reasoning
}

// sanitizeChannelPlan rebuilds the plan entry by entry. Repaired send times
// are staggered five minutes out plus one minute per entry so a fully rebuilt
// plan still dispatches in order.
func (v *Validator) sanitizeChannelPlan(raw any, note func(string, ...any)) []any {
	now := v.now()
	sendAtFor := func(index int) string {
		return models.FormatTimestamp(now.Add(5*time.Minute + time.Duration(index)*time.Minute))
	}

	plan, ok := raw.([]any)
	if !ok || len(plan) == 0 {
		note("channel_plan: replaced with default single-channel plan")
		return []any{map[string]any{
			"channel":  string(models.ChannelEmail),
			"send_at":  sendAtFor(0),
			"priority": float64(1),
			"payload": map[string]any{
				"body":     "Auto-repaired campaign message",
				"cta":      map[string]any{},
				"metadata": map[string]any{},
			},
			"delivery_instructions": map[string]any{
				"retry_policy": sanitizedRetryPolicy,
				"timeout_sec":  sanitizedTimeoutSec,
			},
		}}
	}

	for i, rawEntry := range plan {
		prefix := fmt.Sprintf("channel_plan[%d]", i)
		entry, ok := rawEntry.(map[string]any)
		if !ok {
			entry = map[string]any{}
			note("%s: replaced non-object entry", prefix)
		}
		if s, ok := entry["channel"].(string); !ok || !models.IsValidChannel(s) {
			entry["channel"] = string(models.ChannelEmail)
			note("%s.channel: defaulted to Email", prefix)
		}
		if s, ok := entry["send_at"].(string); !ok || !models.IsCanonicalTimestamp(s) {
			entry["send_at"] = sendAtFor(i)
			note("%s.send_at: rescheduled", prefix)
		}
		if !isPositiveInt(entry["priority"]) {
			entry["priority"] = float64(i + 1)
			note("%s.priority: defaulted to rank", prefix)
		}

		payload, ok := entry["payload"].(map[string]any)
		if !ok {
			payload = map[string]any{}
			note("%s.payload: replaced with default payload", prefix)
		}
		if s, ok := payload["body"].(string); !ok || s == "" {
			payload["body"] = "Auto-repaired campaign message"
			note("%s.payload.body: defaulted", prefix)
		}
		if _, ok := payload["cta"].(map[string]any); !ok {
			payload["cta"] = map[string]any{}
			note("%s.payload.cta: defaulted to empty object", prefix)
		}
		if _, ok := payload["metadata"].(map[string]any); !ok {
			payload["metadata"] = map[string]any{}
			note("%s.payload.metadata: defaulted to empty object", prefix)
		}
		entry["payload"] = payload

		delivery, ok := entry["delivery_instructions"].(map[string]any)
		if !ok {
			delivery = map[string]any{}
			note("%s.delivery_instructions: replaced with defaults", prefix)
		}
		if s, ok := delivery["retry_policy"].(string); !ok || s == "" {
			delivery["retry_policy"] = sanitizedRetryPolicy
			note("%s.delivery_instructions.retry_policy: defaulted", prefix)
		}
		if f, ok := delivery["timeout_sec"].(float64); !ok || f <= 0 {
			delivery["timeout_sec"] = sanitizedTimeoutSec
			note("%s.delivery_instructions.timeout_sec: defaulted", prefix)
		}
		entry["delivery_instructions"] = delivery

		plan[i] = entry
	}
	return plan
}

func sanitizeCampaignMeta(v any, note func(string, ...any)) map[string]any {
	meta, ok := v.(map[string]any)
	if !ok {
		note("campaign_meta: replaced with defaults")
		return map[string]any{
			"source_snapshot": map[string]any{},
			"engine_version":  sanitizedEngineVersion,
			"confidence":      sanitizedScore,
		}
	}
	if _, ok := meta["source_snapshot"].(map[string]any); !ok {
		meta["source_snapshot"] = map[string]any{}
		note("campaign_meta.source_snapshot: defaulted to empty object")
	}
	if s, ok := meta["engine_version"].(string); !ok || s == "" {
		meta["engine_version"] = sanitizedEngineVersion
		note("campaign_meta.engine_version: defaulted")
	}
	meta["confidence"] = clampUnit(meta["confidence"], "campaign_meta.confidence", note)
	return meta
}

// clampUnit coerces v into [0, 1], defaulting non-numbers to 0.5.
func clampUnit(v any, path string, note func(string, ...any)) float64 {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) {
		note("%s: defaulted to %.1f", path, sanitizedScore)
		return sanitizedScore
	}
	switch {
	case f < 0:
		note("%s: clamped to 0", path)
		return 0
	case f > 1:
		note("%s: clamped to 1", path)
		return 1
	default:
		return f
	}
}
