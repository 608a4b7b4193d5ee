// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

/*
Package stream schedules recommendation delivery to connected clients.

Two delivery paths share one scheduler. The global stream ticks on a fixed
interval and broadcasts a fresh recommendation to every simulating client;
when nobody is simulating the tick costs nothing. Per-client streams are
created when a client starts a simulation: each runs on the client's own
interval with a message budget of duration divided by interval, and ends when
the budget is spent, the client disconnects, or a send fails.

Every generated recommendation is validated before it leaves the process; an
invalid document is sanitized rather than dropped, so clients only ever see
schema-conforming payloads.
*/
package stream
