// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

/*
Package engine turns raw behavioral signals into campaign recommendations.

The pipeline runs in fixed stages: aggregate signals into a scored snapshot,
select an audience segment from the static catalog, rank channels against the
rule table, then assemble the channel plan with urgency-staggered send times.
Every stage is deterministic given the same signals; the only randomness is
the injected RNG used for the advisory AI-confidence annotation and the
fallback generator.

Generation never fails. If the pipeline panics or no signals are available,
the caller receives a fallback recommendation tagged with the demo engine
version instead of an error.
*/
package engine
