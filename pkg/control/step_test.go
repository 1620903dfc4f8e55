// SPDX-License-Identifier: BSD-3-Clause

package control

import (
	"testing"
	"time"
)

// baseSensors returns an all-in-range reading set with the given loop
// temperatures, matching the end-to-end scenarios' "other temps in range"
// preamble.
func baseSensors(hpSupply float64) Sensors {
	return Sensors{
		CH1: 80, CH2: 90, CH9: 85, CH10: hpSupply,
		OutdoorTemp: 80,
	}
}

// TestStepWarmStartupDemand reproduces scenario 1 (spec §8): ΔT=15 with a
// cold lead tower should activate tower1 at the startup floor.
func TestStepWarmStartupDemand(t *testing.T) {
	cfg := DefaultConfig()
	now := fixedNow()
	state := NewPlantState(now)

	cmd, next := Step(cfg, baseSensors(90), UIOverrides{}, state, now)

	if cmd.ActiveTowers != 1 {
		t.Fatalf("activeTowers = %d, want 1", cmd.ActiveTowers)
	}
	if !cmd.Towers[0].VFDEnable {
		t.Error("tower1 should be enabled")
	}
	if cmd.Towers[0].FanSpeed != cfg.c.vMin {
		t.Errorf("fan speed = %v, want startup floor %v", cmd.Towers[0].FanSpeed, cfg.c.vMin)
	}
	if !cmd.Towers[0].IsolationOpen {
		t.Error("tower1 isolation valve should be open")
	}
	if !next.TowerRun[0].Running() {
		t.Error("tower1 start_time should be set")
	}
	if cmd.BypassValvePosition != 2.0 || cmd.TemperingValvePosition != 2.0 {
		t.Errorf("valves = %v/%v, want 2.0/2.0 at 80F outdoor", cmd.BypassValvePosition, cmd.TemperingValvePosition)
	}
}

// TestStepStageEscalation reproduces scenario 2: ΔT=30 demands all three
// towers, each starting at the floor on its first tick.
func TestStepStageEscalation(t *testing.T) {
	cfg := DefaultConfig()
	now := fixedNow()
	state := NewPlantState(now)

	cmd, _ := Step(cfg, baseSensors(105), UIOverrides{}, state, now)

	if cmd.ActiveTowers != 3 {
		t.Fatalf("activeTowers = %d, want 3", cmd.ActiveTowers)
	}
	for i, tc := range cmd.Towers {
		if !tc.VFDEnable || tc.FanSpeed != cfg.c.vMin {
			t.Errorf("tower %d = %+v, want enabled at startup floor", i, tc)
		}
	}
}

// TestStepMinimumRuntimeHold reproduces scenario 3: a tower 120s into its
// run with no demand must still be held on at the floor.
func TestStepMinimumRuntimeHold(t *testing.T) {
	cfg := DefaultConfig()
	now := fixedNow()
	state := NewPlantState(now)
	state.TowerRun[0] = RunningTowerState(now.Add(-120 * time.Second))
	state.LeadTower = Tower1

	cmd, next := Step(cfg, baseSensors(77), UIOverrides{}, state, now)

	if !cmd.Towers[0].VFDEnable {
		t.Error("tower1 should still be enabled within minimum runtime")
	}
	if cmd.Towers[0].FanSpeed != cfg.c.vMin {
		t.Errorf("fan speed = %v, want %v", cmd.Towers[0].FanSpeed, cfg.c.vMin)
	}
	if !cmd.Towers[0].IsolationOpen {
		t.Error("isolation valve should remain open")
	}
	if !next.TowerRun[0].Running() {
		t.Error("start_time should be preserved")
	}
}

// TestStepColdShutdownAfterRuntime reproduces scenario 4: a tower past its
// minimum runtime with HP-supply below the hard limit must shut down and
// begin its off cooldown.
func TestStepColdShutdownAfterRuntime(t *testing.T) {
	cfg := DefaultConfig()
	now := fixedNow()
	state := NewPlantState(now)
	state.TowerRun[0] = RunningTowerState(now.Add(-500 * time.Second))
	state.LeadTower = Tower1

	cmd, next := Step(cfg, baseSensors(60), UIOverrides{}, state, now)

	if cmd.Towers[0].VFDEnable {
		t.Error("tower1 should be disabled below the hard HP-supply limit")
	}
	if !cmd.Towers[0].IsolationClose {
		t.Error("isolation valve should close")
	}
	if !next.TowerRun[0].InCooldown() {
		t.Error("stop_time should be set, beginning the off cooldown")
	}
}

// TestStepOffCooldownGate reproduces scenario 5: a tower with a recent
// stop_time must not be reactivated despite demand.
func TestStepOffCooldownGate(t *testing.T) {
	cfg := DefaultConfig()
	now := fixedNow()
	state := NewPlantState(now)
	state.TowerRun[0] = CooldownTowerState(now.Add(-60 * time.Second))
	state.LeadTower = Tower1

	cmd, _ := Step(cfg, baseSensors(95), UIOverrides{}, state, now)

	if cmd.Towers[0].VFDEnable {
		t.Error("tower1 should remain off during its cooldown gate despite demand")
	}
}

func TestStepSafetyGateShortCircuits(t *testing.T) {
	cfg := DefaultConfig()
	now := fixedNow()
	state := NewPlantState(now)
	sensors := baseSensors(90)
	sensors.WTV801_1 = 8.0 // critical vibration

	cmd, _ := Step(cfg, sensors, UIOverrides{}, state, now)

	if cmd.AlarmStatus != AlarmCritical {
		t.Fatalf("alarm = %v, want critical", cmd.AlarmStatus)
	}
	for i, tc := range cmd.Towers {
		if tc.VFDEnable || !tc.IsolationClose {
			t.Errorf("tower %d not safely shut down: %+v", i, tc)
		}
	}
}

func TestStepManualOverrideAppliedLast(t *testing.T) {
	cfg := DefaultConfig()
	now := fixedNow()
	state := NewPlantState(now)
	speed := 4.0
	enable := true
	ui := UIOverrides{}
	ui.TowerFanSpeed[1] = &speed
	ui.TowerVFDEnable[1] = &enable

	cmd, _ := Step(cfg, baseSensors(80), ui, state, now)

	if !cmd.Towers[1].VFDEnable || cmd.Towers[1].FanSpeed != 4.0 {
		t.Errorf("manual override should win for tower2, got %+v", cmd.Towers[1])
	}
}

func TestStepInvariantsHoldAcrossRandomizedTicks(t *testing.T) {
	cfg := DefaultConfig()
	now := fixedNow()
	state := NewPlantState(now)

	hpSupplies := []float64{55, 64, 66, 75, 85, 95, 105, 112}
	for i, hp := range hpSupplies {
		tick := now.Add(time.Duration(i) * 7 * time.Second)
		cmd, next := Step(cfg, baseSensors(hp), UIOverrides{}, state, tick)
		state = next

		for ti, tc := range cmd.Towers {
			if tc.FanSpeed != 0 && (tc.FanSpeed < cfg.c.vMin || tc.FanSpeed > cfg.c.vMax) {
				t.Errorf("tick %d tower %d: fan speed %v outside {0}U[vMin,vMax]", i, ti, tc.FanSpeed)
			}
			if tc.IsolationOpen && tc.IsolationClose {
				t.Errorf("tick %d tower %d: both isolation commands asserted", i, ti)
			}
		}

		enabledPumps := 0
		for _, on := range cmd.Pumps {
			if on {
				enabledPumps++
			}
		}
		if enabledPumps > 2 {
			t.Errorf("tick %d: %d pumps enabled, want at most 2", i, enabledPumps)
		}

		if cmd.BypassValvePosition < 2.0 || cmd.BypassValvePosition > 10.0 {
			t.Errorf("tick %d: bypass %v outside [2,10]", i, cmd.BypassValvePosition)
		}
		if cmd.TemperingValvePosition < 2.0 || cmd.TemperingValvePosition > 10.0 {
			t.Errorf("tick %d: tempering %v outside [2,10]", i, cmd.TemperingValvePosition)
		}
	}
}

func TestStepErrorPathOnNilConfig(t *testing.T) {
	now := fixedNow()
	state := NewPlantState(now)

	// A zero-value Config has a nil inner pointer; every component
	// dereferences cfg.c, so this reliably exercises the outermost
	// panic-recovery path documented in §7.
	var zero Config
	cmd, next := Step(zero, baseSensors(90), UIOverrides{}, state, now)

	if cmd.AlarmStatus != AlarmError {
		t.Fatalf("alarm = %v, want error", cmd.AlarmStatus)
	}
	if len(cmd.FaultConditions) != 1 || cmd.FaultConditions[0] != FaultControlSystemError {
		t.Errorf("faultConditions = %v, want [CONTROL_SYSTEM_ERROR]", cmd.FaultConditions)
	}
	if cmd.ControlMode != ModeError {
		t.Errorf("controlMode = %v, want error", cmd.ControlMode)
	}
	if next != state {
		t.Error("carried state must be returned unchanged on the error path")
	}
}
