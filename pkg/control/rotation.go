// SPDX-License-Identifier: BSD-3-Clause

package control

import "time"

// rotateLead is the lead-tower rotator (spec §2 component 4, §4.3). On a
// weekly boundary it advances the lead tower to the next available
// tower, scanning up to three candidates; if none is available, it
// leaves the lead unchanged. LeadRotationStart only resets when a
// rotation actually occurred.
func rotateLead(cfg Config, lead Tower, rotationStart, now time.Time) (Tower, time.Time) {
	if now.Sub(rotationStart) < cfg.c.rotationPeriod {
		return lead, rotationStart
	}

	candidate := lead
	for i := 0; i < 3; i++ {
		candidate = candidate.Next()
		if cfg.towerAvailableAt(candidate) {
			return candidate, now
		}
	}
	return lead, rotationStart
}

// lagTowers returns the lag1, lag2 duty assignment following lead, per
// §4.4: lag1 = (lead mod 3)+1, lag2 = ((lead+1) mod 3)+1.
func lagTowers(lead Tower) (Tower, Tower) {
	lag1 := lead.Next()
	lag2 := lag1.Next()
	return lag1, lag2
}
