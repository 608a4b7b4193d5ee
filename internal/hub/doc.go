// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

/*
Package hub manages WebSocket connections and message fan-out.

The hub owns all connection state: registration, per-client simulation
config, activity tracking, and shutdown. Clients are thin pump pairs over a
gorilla/websocket connection; every state change flows through the hub's
single goroutine so no client ever observes a partial update.

Inbound messages are commands (ping, start_simulation, stop_simulation).
Malformed commands get an error message back on the same connection; unknown
command types are logged and ignored, never fatal. A SimulationListener
receives start/stop callbacks so the streaming layer can schedule per-client
delivery without the hub knowing about tickers.

The hub emits a heartbeat system message on a fixed interval and sweeps
connections idle past the timeout, closing them with a normal closure code.
*/
package hub
