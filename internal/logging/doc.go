// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

// Package logging provides centralized zerolog-based logging.
//
// The package exposes a process-global structured logger configured once at
// startup and used through leveled event constructors:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("source", id).Msg("gateway fallback")
//
// An slog adapter is provided so the suture supervisor's event hook
// (sutureslog) writes through the same zerolog backend.
//
// Always terminate log chains with .Msg() or .Send(); a chain without a
// terminator is silently dropped by zerolog.
package logging
