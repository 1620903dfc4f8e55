// SPDX-License-Identifier: BSD-3-Clause

package control

import (
	"testing"
	"time"
)

// TestCommandTowersResetsRampOnRestart reproduces the stale-ramp bug: a
// tower that previously ramped up to near v_max, then went through
// cooldown, must start its next activation at the startup floor
// (v_min), not wherever its ramp state was left from the prior run.
func TestCommandTowersResetsRampOnRestart(t *testing.T) {
	cfg := DefaultConfig()
	now := fixedNow()

	state := PlantState{initialized: true, LeadTower: Tower1}
	state.TowerRun[Tower1.Index()] = CooldownTowerState(now.Add(-10 * time.Minute))
	state.TowerRamp[Tower1.Index()] = RampState{
		CurrentVoltage: 4.8,
		TargetVoltage:  4.8,
		LastChange:     now.Add(-1 * time.Minute),
		Initialized:    true,
	}

	staging := stagingResult{Demanded: 1, DemandPercent: 60, DeltaT: 20, Lead: Tower1, Lag1: Tower2, Lag2: Tower3}

	res := commandTowers(cfg, state, staging, 90, now)

	idx := Tower1.Index()
	if !res.Activated[idx] {
		t.Fatalf("expected tower1 to be activated, got %+v", res.Activated)
	}
	if res.Commands[idx].FanSpeed != cfg.c.vMin {
		t.Errorf("fan speed on restart = %v, want startup floor %v (stale ramp state not reset)", res.Commands[idx].FanSpeed, cfg.c.vMin)
	}
	if res.Ramp[idx].CurrentVoltage != cfg.c.vMin {
		t.Errorf("ramp.CurrentVoltage on restart = %v, want %v", res.Ramp[idx].CurrentVoltage, cfg.c.vMin)
	}
}

// TestCommandTowersPrefersAlreadyRunningTowerOverIdleLead reproduces the
// spec §9 "any tower running" scenario: the lead tower is idle, a lag
// tower is already running, and only one tower is demanded. The
// commander must let the already-running lag tower continue rather than
// activating the idle lead and burning the single demanded slot on it.
func TestCommandTowersPrefersAlreadyRunningTowerOverIdleLead(t *testing.T) {
	cfg := DefaultConfig()
	now := fixedNow()

	state := PlantState{initialized: true, LeadTower: Tower1}
	state.TowerRun[Tower1.Index()] = IdleTowerState()
	state.TowerRun[Tower2.Index()] = RunningTowerState(now.Add(-5 * time.Minute))
	state.TowerRun[Tower3.Index()] = IdleTowerState()

	staging := stagingResult{Demanded: 1, DemandPercent: 40, DeltaT: -3, Lead: Tower1, Lag1: Tower2, Lag2: Tower3}

	res := commandTowers(cfg, state, staging, 70, now)

	if res.Activated[Tower1.Index()] {
		t.Errorf("idle lead tower1 should not be activated while tower2 is already running, got %+v", res.Activated)
	}
	if !res.Activated[Tower2.Index()] {
		t.Errorf("already-running tower2 should continue filling the demanded slot, got %+v", res.Activated)
	}
	if !res.Commands[Tower1.Index()].IsolationClose {
		t.Errorf("tower1 not selected this pass should have its isolation valve closed, got %+v", res.Commands[Tower1.Index()])
	}
}

func TestDutyOrderPreferRunningMovesRunningTowersFirst(t *testing.T) {
	now := fixedNow()
	state := PlantState{initialized: true}
	state.TowerRun[Tower2.Index()] = RunningTowerState(now.Add(-time.Minute))

	staging := stagingResult{Lead: Tower1, Lag1: Tower2, Lag2: Tower3}

	order := dutyOrderPreferRunning(state, staging)
	if order[0] != Tower2 {
		t.Errorf("expected already-running tower2 first in duty order, got %v", order)
	}
}
