// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

/*
Package api provides the HTTP surface: REST endpoints under /api, the
websocket upgrade at /ws, Prometheus metrics at /metrics, and a health probe
at /health.

Routing is chi with the standard middleware stack (request ID, real IP,
recoverer), go-chi/cors for CORS, and go-chi/httprate for IP-keyed rate
limiting on the /api group. Request structs are validated with the validation
package; every response uses the models.APIResponse envelope.

The handlers are thin: each one validates input, calls into the owning
package (sources registry, gateway, engine via the stream.Generator
interface, schema validator, hub, streamer), and wraps the result.
*/
package api
