// SPDX-License-Identifier: BSD-3-Clause

package control

import (
	"testing"
	"time"
)

// TestEnforceRuntimeForcesOnWithinMinimumRuntime reproduces a tower the
// commander did not select this pass but which is still inside its
// minimum-runtime window: the enforcer must force it back on.
func TestEnforceRuntimeForcesOnWithinMinimumRuntime(t *testing.T) {
	cfg := DefaultConfig()
	now := fixedNow()

	var res towerCommandResult
	idx := Tower1.Index()
	res.Run[idx] = RunningTowerState(now.Add(-1 * time.Minute))
	for i := range res.Commands {
		res.Commands[i] = TowerCommand{IsolationClose: true}
	}

	res = enforceRuntime(cfg, res, 0, 70, now)

	if !res.Commands[idx].VFDEnable {
		t.Fatalf("expected tower1 forced on within minimum runtime, got %+v", res.Commands[idx])
	}
	if res.Commands[idx].FanSpeed != cfg.c.vMin {
		t.Errorf("forced-on fan speed = %v, want startup floor %v", res.Commands[idx].FanSpeed, cfg.c.vMin)
	}
}

// TestEnforceRuntimeTransitionsToCooldownWhenConditionsClear reproduces
// a tower past its minimum runtime once cooling is no longer warranted:
// the enforcer must let it go to cooldown rather than forcing it on.
func TestEnforceRuntimeTransitionsToCooldownWhenConditionsClear(t *testing.T) {
	cfg := DefaultConfig()
	now := fixedNow()

	var res towerCommandResult
	idx := Tower1.Index()
	res.Run[idx] = RunningTowerState(now.Add(-8 * time.Minute))
	for i := range res.Commands {
		res.Commands[i] = TowerCommand{IsolationClose: true}
	}

	res = enforceRuntime(cfg, res, -15, 70, now)

	if !res.Run[idx].InCooldown() {
		t.Fatalf("expected tower1 to enter cooldown once deltaT clears, got %+v", res.Run[idx])
	}
}

// TestEnforceRuntimeResetsStartTimeWhenStillWarranted reproduces a tower
// past its minimum runtime while cooling is still warranted: the
// enforcer resets start_time and forces the tower through another full
// minimum-runtime window rather than letting it oscillate near setpoint.
func TestEnforceRuntimeResetsStartTimeWhenStillWarranted(t *testing.T) {
	cfg := DefaultConfig()
	now := fixedNow()

	var res towerCommandResult
	idx := Tower1.Index()
	res.Run[idx] = RunningTowerState(now.Add(-8 * time.Minute))
	for i := range res.Commands {
		res.Commands[i] = TowerCommand{IsolationClose: true}
	}

	res = enforceRuntime(cfg, res, 5, 70, now)

	if !res.Run[idx].Running() || !res.Run[idx].At.Equal(now) {
		t.Fatalf("expected tower1 start_time reset to now, got %+v", res.Run[idx])
	}
	if !res.Commands[idx].VFDEnable {
		t.Errorf("expected tower1 forced on, got %+v", res.Commands[idx])
	}
}
