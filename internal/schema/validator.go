// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package schema

import (
	"fmt"
	"math"
	"time"

	json "github.com/goccy/go-json"

	"github.com/signalcast/signalcast/internal/metrics"
	"github.com/signalcast/signalcast/internal/models"
)

// ValidationError is one schema violation, addressed by JSON path.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e ValidationError) String() string {
	return e.Path + ": " + e.Message
}

// Result is the outcome of validating one document.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Validator checks recommendation documents against the wire schema and keeps
// running statistics. Safe for concurrent use.
type Validator struct {
	stats *StatsTracker
	now   func() time.Time
}

// NewValidator creates a validator with fresh statistics.
func NewValidator() *Validator {
	return &Validator{
		stats: NewStatsTracker(),
		now:   time.Now,
	}
}

// Normalize converts any value into the map shape validation operates on by
// round-tripping it through JSON.
func Normalize(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("normalize: document is not a JSON object: %w", err)
	}
	return doc, nil
}

// Validate checks one document and records the outcome in the stats tracker.
func (v *Validator) Validate(input any) Result {
	result := v.check(input)
	v.stats.record(result, v.now())
	metrics.RecordValidation(result.Valid)
	return result
}

// ValidateBatch checks every document independently and in order. One invalid
// document never short-circuits the rest.
func (v *Validator) ValidateBatch(inputs []any) []Result {
	results := make([]Result, 0, len(inputs))
	for _, input := range inputs {
		results = append(results, v.Validate(input))
	}
	return results
}

// check runs the schema rules without touching statistics.
func (v *Validator) check(input any) Result {
	doc, err := Normalize(input)
	if err != nil {
		return Result{Valid: false, Errors: []ValidationError{{Path: "$", Message: "document is not a JSON object"}}}
	}

	var errs []ValidationError
	add := func(path, msg string) {
		errs = append(errs, ValidationError{Path: path, Message: msg})
	}

	if s, ok := doc["id"].(string); !ok || s == "" {
		add("id", "must be a non-empty string")
	}
	if s, ok := doc["timestamp"].(string); !ok || !models.IsCanonicalTimestamp(s) {
		add("timestamp", "must be a canonical UTC timestamp")
	}

	checkAudience(doc["audience"], add)
	checkReasoning(doc["reasoning"], add)
	checkChannelPlan(doc["channel_plan"], add)
	checkCampaignMeta(doc["campaign_meta"], add)

	return Result{Valid: len(errs) == 0, Errors: errs}
}

func checkAudience(v any, add func(path, msg string)) {
	audience, ok := v.(map[string]any)
	if !ok {
		add("audience", "must be an object")
		return
	}
	if s, ok := audience["segment_id"].(string); !ok || s == "" {
		add("audience.segment_id", "must be a non-empty string")
	}
	if s, ok := audience["name"].(string); !ok || s == "" {
		add("audience.name", "must be a non-empty string")
	}
	if _, ok := audience["filters"].(map[string]any); !ok {
		add("audience.filters", "must be an object")
	}
}

func checkReasoning(v any, add func(path, msg string)) {
	reasoning, ok := v.(map[string]any)
	if !ok {
		add("reasoning", "must be an object")
		return
	}
	signals, ok := reasoning["signals"].([]any)
	switch {
	case !ok:
		add("reasoning.signals", "must be an array of strings")
	case len(signals) == 0:
		add("reasoning.signals", "must not be empty")
	default:
		for i, s := range signals {
			if _, ok := s.(string); !ok {
				add(fmt.Sprintf("reasoning.signals[%d]", i), "must be a string")
			}
		}
	}
	if !isUnitScore(reasoning["score"]) {
		add("reasoning.score", "must be a number between 0 and 1")
	}
	if _, ok := reasoning["explain"].(string); !ok {
		add("reasoning.explain", "must be a string")
	}
}

func checkChannelPlan(v any, add func(path, msg string)) {
	plan, ok := v.([]any)
	if !ok {
		add("channel_plan", "must be an array")
		return
	}
	if len(plan) == 0 {
		add("channel_plan", "must not be empty")
		return
	}
	for i, raw := range plan {
		prefix := fmt.Sprintf("channel_plan[%d]", i)
		entry, ok := raw.(map[string]any)
		if !ok {
			add(prefix, "must be an object")
			continue
		}
		if s, ok := entry["channel"].(string); !ok || !models.IsValidChannel(s) {
			add(prefix+".channel", "unsupported channel")
		}
		if s, ok := entry["send_at"].(string); !ok || !models.IsCanonicalTimestamp(s) {
			add(prefix+".send_at", "must be a canonical UTC timestamp")
		}
		if !isPositiveInt(entry["priority"]) {
			add(prefix+".priority", "must be a positive integer")
		}
		checkPayload(entry["payload"], prefix+".payload", add)
		checkDelivery(entry["delivery_instructions"], prefix+".delivery_instructions", add)
	}
}

func checkPayload(v any, prefix string, add func(path, msg string)) {
	payload, ok := v.(map[string]any)
	if !ok {
		add(prefix, "must be an object")
		return
	}
	if s, ok := payload["body"].(string); !ok || s == "" {
		add(prefix+".body", "must be a non-empty string")
	}
	if _, ok := payload["cta"].(map[string]any); !ok {
		add(prefix+".cta", "must be an object")
	}
	if _, ok := payload["metadata"].(map[string]any); !ok {
		add(prefix+".metadata", "must be an object")
	}
}

func checkDelivery(v any, prefix string, add func(path, msg string)) {
	delivery, ok := v.(map[string]any)
	if !ok {
		add(prefix, "must be an object")
		return
	}
	if s, ok := delivery["retry_policy"].(string); !ok || s == "" {
		add(prefix+".retry_policy", "must be a non-empty string")
	}
	if f, ok := delivery["timeout_sec"].(float64); !ok || f <= 0 {
		add(prefix+".timeout_sec", "must be a positive number")
	}
}

func checkCampaignMeta(v any, add func(path, msg string)) {
	meta, ok := v.(map[string]any)
	if !ok {
		add("campaign_meta", "must be an object")
		return
	}
	if _, ok := meta["source_snapshot"].(map[string]any); !ok {
		add("campaign_meta.source_snapshot", "must be an object")
	}
	if s, ok := meta["engine_version"].(string); !ok || s == "" {
		add("campaign_meta.engine_version", "must be a non-empty string")
	}
	if !isUnitScore(meta["confidence"]) {
		add("campaign_meta.confidence", "must be a number between 0 and 1")
	}
}

// isUnitScore accepts a JSON number in [0, 1].
func isUnitScore(v any) bool {
	f, ok := v.(float64)
	return ok && !math.IsNaN(f) && f >= 0 && f <= 1
}

// isPositiveInt accepts a JSON number that is a whole value >= 1.
func isPositiveInt(v any) bool {
	f, ok := v.(float64)
	return ok && f >= 1 && f == math.Trunc(f)
}
