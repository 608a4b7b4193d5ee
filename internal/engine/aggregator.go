// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package engine

import (
	"github.com/signalcast/signalcast/internal/models"
)

// Primary trigger thresholds. A signal type becomes a primary trigger when at
// least one of its signals clears both bars.
const (
	primaryWeightThreshold     = 0.7
	primaryConfidenceThreshold = 0.8
)

// highUrgencyTriggers force high urgency when any signal carries one.
var highUrgencyTriggers = map[string]bool{
	"cart_abandonment": true,
	"checkout_start":   true,
	"payment_attempt":  true,
}

// mediumUrgencyTriggers raise urgency to medium when two or more matching
// signals are present, repeated types included.
var mediumUrgencyTriggers = map[string]bool{
	"product_view":    true,
	"category_browse": true,
	"search_activity": true,
}

// Aggregate folds a signal batch into its scored snapshot. An empty batch
// yields the zero snapshot with low urgency; derived statistics are never NaN.
func Aggregate(signals []models.Signal) models.AggregatedSignals {
	agg := models.AggregatedSignals{
		Signals:         signals,
		PrimaryTriggers: []string{},
		UrgencyLevel:    models.UrgencyLow,
	}
	if len(signals) == 0 {
		return agg
	}

	var totalWeight, totalConfidence float64
	seenPrimary := map[string]bool{}
	mediumCount := 0
	high := false

	for _, s := range signals {
		totalWeight += s.Weight
		totalConfidence += s.Confidence

		if s.Weight > primaryWeightThreshold && s.Confidence > primaryConfidenceThreshold && !seenPrimary[s.Type] {
			seenPrimary[s.Type] = true
			agg.PrimaryTriggers = append(agg.PrimaryTriggers, s.Type)
		}
		if highUrgencyTriggers[s.Type] {
			high = true
		}
		if mediumUrgencyTriggers[s.Type] {
			mediumCount++
		}
	}

	n := float64(len(signals))
	agg.TotalWeight = totalWeight
	agg.AverageConfidence = totalConfidence / n

	score := (totalWeight / n) * agg.AverageConfidence
	if score > 1 {
		score = 1
	}
	agg.AudienceScore = score

	switch {
	case high:
		agg.UrgencyLevel = models.UrgencyHigh
	case mediumCount >= 2:
		agg.UrgencyLevel = models.UrgencyMedium
	default:
		agg.UrgencyLevel = models.UrgencyLow
	}
	return agg
}
