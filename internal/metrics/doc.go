// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

/*
Package metrics provides Prometheus metrics collection and export.

The package instruments the recommendation pipeline end to end:
  - API endpoint latency and throughput
  - WebSocket connections, commands and broadcast volume
  - Recommendation generation counts and durations (engine vs fallback)
  - Schema validation and sanitization outcomes
  - Gateway fetch routing (mock, real, fallback) and failure counts
  - Circuit breaker state transitions
  - Stream scheduler activity

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8095/metrics

All collectors are registered through promauto at package init, so importing
the package is enough to make every metric scrapable.
*/
package metrics
