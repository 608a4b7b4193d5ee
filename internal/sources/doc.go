// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

// Package sources holds the static data-source catalog, the per-source
// configuration registry, and the mock signal generator that stands in for
// real upstreams.
//
// The registry is an owned object injected into the gateway and the engine;
// all configuration lives in process memory and resets on restart.
package sources
