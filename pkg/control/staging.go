// SPDX-License-Identifier: BSD-3-Clause

package control

// stagingResult is the outcome of the staging decider.
type stagingResult struct {
	Demanded int
	DemandPercent float64
	DeltaT   float64
	Lead     Tower
	Lag1     Tower
	Lag2     Tower
}

// decideStaging is the staging decider (spec §2 component 5, §4.4). The
// decision table is evaluated top-down; first match wins. The
// "any tower running" branch resolves the open question from spec §9:
// demanded = max(floor(stage-demand), currently-running count), so that
// a lower table lookup never commands a healthy running tower to stop;
// the tower commander (§4.5) is responsible for choosing which running
// towers continue.
func decideStaging(cfg Config, run [3]TowerRunState, hpSupply, towerSupply, setpoint float64, lead Tower) stagingResult {
	deltaT := hpSupply - setpoint

	runningCount := 0
	for _, s := range run {
		if s.Running() {
			runningCount++
		}
	}

	var demanded int
	var demandPct float64

	switch {
	case deltaT < cfg.c.deltaShutdown || hpSupply < cfg.c.hpSupplyMin || towerSupply < cfg.c.towerSupplyMin:
		demanded, demandPct = 0, 0

	case runningCount > 0 && deltaT >= -5:
		stage := 0
		switch {
		case deltaT >= cfg.c.delta3:
			stage = 3
		case deltaT >= cfg.c.delta2:
			stage = 2
		case deltaT >= cfg.c.delta1:
			stage = 1
		}
		demanded = max(1, runningCount, stage)
		demandPct = clamp(28+3*deltaT, 28, 100)

	case deltaT >= cfg.c.delta4:
		demanded, demandPct = 3, 100

	case deltaT >= cfg.c.delta3:
		demanded, demandPct = 3, 75

	case deltaT >= cfg.c.delta2:
		demanded, demandPct = 2, 60

	case deltaT >= cfg.c.delta1:
		demanded = 1
		demandPct = clamp(28+2*(deltaT-10), 28, 50)

	default:
		demanded, demandPct = 0, 0
	}

	// Open-question resolution (spec §9): never command fewer towers
	// than are currently running; the table above already folds this in
	// for the "any tower running" branch, but a hard-shutdown condition
	// (first case) legitimately overrides it, so no extra max() here.

	lag1, lag2 := lagTowers(lead)
	return stagingResult{
		Demanded:      demanded,
		DemandPercent: demandPct,
		DeltaT:        deltaT,
		Lead:          lead,
		Lag1:          lag1,
		Lag2:          lag2,
	}
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
