// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package schema

import (
	"sort"
	"sync"
	"time"

	"github.com/signalcast/signalcast/internal/models"
)

// Stats is the validation statistics snapshot served by the stats endpoint.
type Stats struct {
	TotalValidations   int            `json:"totalValidations"`
	ValidCount         int            `json:"validCount"`
	InvalidCount       int            `json:"invalidCount"`
	MostCommonErrors   map[string]int `json:"mostCommonErrors"`
	LastValidationTime string         `json:"lastValidationTime,omitempty"`
}

// ErrorFrequency is one entry of the ranked error table.
type ErrorFrequency struct {
	Error string `json:"error"`
	Count int    `json:"count"`
}

// StatsTracker accumulates validation outcomes. Error keys are the
// "path: message" form so identical violations aggregate across documents.
type StatsTracker struct {
	mu     sync.Mutex
	total  int
	valid  int
	errors map[string]int
	last   time.Time
}

// NewStatsTracker creates an empty tracker.
func NewStatsTracker() *StatsTracker {
	return &StatsTracker{errors: make(map[string]int)}
}

func (t *StatsTracker) record(result Result, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total++
	t.last = at
	if result.Valid {
		t.valid++
		return
	}
	for _, e := range result.Errors {
		t.errors[e.String()]++
	}
}

// Snapshot returns a copy of the current statistics.
func (t *StatsTracker) Snapshot() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	errors := make(map[string]int, len(t.errors))
	for k, v := range t.errors {
		errors[k] = v
	}
	s := Stats{
		TotalValidations: t.total,
		ValidCount:       t.valid,
		InvalidCount:     t.total - t.valid,
		MostCommonErrors: errors,
	}
	if !t.last.IsZero() {
		s.LastValidationTime = models.FormatTimestamp(t.last)
	}
	return s
}

// TopErrors returns the n most frequent errors, ties broken alphabetically.
func (t *StatsTracker) TopErrors(n int) []ErrorFrequency {
	snap := t.Snapshot()
	out := make([]ErrorFrequency, 0, len(snap.MostCommonErrors))
	for k, v := range snap.MostCommonErrors {
		out = append(out, ErrorFrequency{Error: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Error < out[j].Error
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Reset clears all accumulated statistics.
func (t *StatsTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total = 0
	t.valid = 0
	t.errors = make(map[string]int)
	t.last = time.Time{}
}

// Stats returns the validator's statistics snapshot.
func (v *Validator) Stats() Stats {
	return v.stats.Snapshot()
}

// TopErrors returns the validator's most frequent errors.
func (v *Validator) TopErrors(n int) []ErrorFrequency {
	return v.stats.TopErrors(n)
}

// ResetStats clears the validator's statistics.
func (v *Validator) ResetStats() {
	v.stats.Reset()
}
