// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

// Package models defines the wire artifacts shared by the engine, the
// validator, the gateway and the connection hub: behavioral signals,
// aggregated signal snapshots, campaign recommendations and the streaming
// message envelope.
//
// All timestamps on the wire use the canonical UTC millisecond layout
// (TimestampLayout); helpers here are the single source of truth for
// formatting and round-trip validation.
package models
