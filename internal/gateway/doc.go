// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

/*
Package gateway routes all data-source fetches through one resilient entry
point. A fetch never surfaces an error to the caller: mocked sources return
synthetic events, real sources go through a retrying, circuit-broken HTTP
client, and any upstream failure degrades to mock events tagged with
api_fallback metadata.

Failure accounting is per source. Three failures inside a five minute window
temporarily disable the source; while disabled, fetches short-circuit to the
fallback without touching the network. The window is rolling: once the last
failure ages out the source is re-enabled and its count resets.

The sony/gobreaker circuit breaker wraps the raw HTTP call underneath the
per-source failure registry. The registry implements the routing contract;
the breaker protects the process from a misbehaving upstream and exports its
state transitions to Prometheus.
*/
package gateway
