// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

/*
Package schema validates and repairs campaign recommendations.

Validation operates on the JSON shape, not Go types: any input is first
normalized through a JSON round-trip so that typed structs, maps and raw
client payloads are all judged by the same rules. Errors are reported as
(path, message) pairs like "channel_plan[0].channel: unsupported channel".

The sanitizer repairs invalid documents instead of rejecting them: missing
identifiers are regenerated, scores are clamped, malformed channel plans are
rebuilt with staggered send times. A sanitized document always passes
validation afterwards, and the list of applied repairs is returned alongside.

The validator keeps running statistics (totals, error frequency table, last
validation time) that the stats endpoints expose and reset.
*/
package schema
