// SPDX-License-Identifier: BSD-3-Clause

package control

import "time"

// pumpCommandResult is the pump supervisor's per-tick output.
type pumpCommandResult struct {
	Enabled [3]bool
	State   PumpState
}

// supervisePumps is the pump supervisor (spec §2 component 6, §4.7). It
// maintains a single active pump with weekly rotation and
// failure-triggered failover using a 5-second overlap changeover.
//
// tickPeriod is the caller's observed period, used to accrue runtime
// hours on the active pump during normal operation.
func supervisePumps(cfg Config, state PumpState, pumpCurrent [3]float64, now time.Time, tickPeriod time.Duration, demandedTowers int) pumpCommandResult {
	bypassed := cfg.c.bypassPumpStatus

	// Open-question resolution (spec §9): with zero demanded towers, all
	// pumps are commanded off. Failure detection, the rotation check and
	// runtime accrual are skipped, so an overdue weekly rotation fires on
	// the next cycle with nonzero demand; a changeover already scheduled
	// still runs its course so Active reflects reality whenever demand
	// resumes.
	if demandedTowers == 0 {
		if state.Changeover != nil && now.Sub(state.Changeover.StartInstant) >= cfg.c.changeoverOverlap {
			state.Active = state.Changeover.NewPump
			state.Changeover = nil
		}
		return pumpCommandResult{State: state}
	}

	// 1. Failure detection.
	if state.Changeover == nil && !bypassed {
		activeCurrent := pumpCurrent[state.Active.Index()]
		if activeCurrent < cfg.c.pumpFailCurrent && now.Sub(state.LastFailoverInstant) > cfg.c.pumpFailDebounce {
			if next, ok := nextAvailablePump(cfg, state.Active); ok {
				state.Changeover = &PumpChangeover{NewPump: next, StartInstant: now}
				state.FailoverCount++
				state.LastFailoverInstant = now
			}
		}
	}

	// 2. Rotation check.
	if state.Changeover == nil && now.Sub(state.RotationStart) >= cfg.c.rotationPeriod {
		if next, ok := nextAvailablePump(cfg, state.Active); ok {
			state.Changeover = &PumpChangeover{NewPump: next, StartInstant: now}
			state.RotationStart = now
		}
	}

	var enabled [3]bool

	// 3. Changeover execution.
	if state.Changeover != nil {
		elapsed := now.Sub(state.Changeover.StartInstant)
		if elapsed < cfg.c.changeoverOverlap {
			enabled[state.Active.Index()] = true
			enabled[state.Changeover.NewPump.Index()] = true
		} else {
			state.Active = state.Changeover.NewPump
			state.Changeover = nil
			enabled[state.Active.Index()] = true
		}
	} else {
		// 4. Normal operation.
		enabled[state.Active.Index()] = true
		state.RuntimeHours[state.Active.Index()] += tickPeriod.Hours()
	}

	return pumpCommandResult{Enabled: enabled, State: state}
}

// nextAvailablePump scans (i mod 3)+1 up to three times for the first
// available candidate other than exhausting the active pump itself when
// unavailable; returns false if none is available, in which case the
// supervisor does not shut off the current active pump.
func nextAvailablePump(cfg Config, active Pump) (Pump, bool) {
	candidate := active
	for i := 0; i < 3; i++ {
		candidate = candidate.Next()
		if cfg.pumpAvailableAt(candidate) {
			return candidate, true
		}
	}
	return active, false
}
