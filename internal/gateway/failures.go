// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package gateway

import (
	"sync"
	"time"
)

// failureState is the per-source accounting record.
type failureState struct {
	count int
	last  time.Time
}

// FailureRegistry tracks consecutive upstream failures per source and decides
// when a source is temporarily disabled. A source trips after maxFailures
// failures whose most recent one is still inside the reset window; once the
// window elapses the count resets on the next query.
type FailureRegistry struct {
	mu          sync.Mutex
	states      map[string]failureState
	maxFailures int
	resetAfter  time.Duration
	now         func() time.Time
}

// NewFailureRegistry creates a registry with the given trip threshold and
// rolling reset window.
func NewFailureRegistry(maxFailures int, resetAfter time.Duration) *FailureRegistry {
	return &FailureRegistry{
		states:      make(map[string]failureState),
		maxFailures: maxFailures,
		resetAfter:  resetAfter,
		now:         time.Now,
	}
}

// Record notes one upstream failure for source and returns the new count.
func (f *FailureRegistry) Record(source string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.states[source]
	st.count++
	st.last = f.now()
	f.states[source] = st
	return st.count
}

// Reset clears all failure state for source. Called on a successful fetch and
// by the manual reset endpoint.
func (f *FailureRegistry) Reset(source string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.states, source)
}

// TemporarilyDisabled reports whether source has tripped. A tripped source
// whose window has elapsed is reset as a side effect.
func (f *FailureRegistry) TemporarilyDisabled(source string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.states[source]
	if !ok || st.count < f.maxFailures {
		return false
	}
	if f.now().Sub(st.last) >= f.resetAfter {
		delete(f.states, source)
		return false
	}
	return true
}

// Count returns the current failure count and last failure time for source.
func (f *FailureRegistry) Count(source string) (int, time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.states[source]
	return st.count, st.last
}
