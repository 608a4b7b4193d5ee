// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

/*
Package supervisor assembles the suture/v4 supervision tree for the server.

The root supervisor owns two child supervisors: the messaging layer (websocket
hub and recommendation streamer) and the API layer (HTTP server). Crashed
services restart with exponential backoff under their own layer without
taking down the rest of the process. Supervisor events are logged through
sutureslog into the application's zerolog pipeline via its slog adapter.
*/
package supervisor
