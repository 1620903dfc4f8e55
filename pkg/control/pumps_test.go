// SPDX-License-Identifier: BSD-3-Clause

package control

import (
	"testing"
	"time"
)

// TestSupervisePumpsFailoverOverlap reproduces the literal pump failover
// scenario (spec end-to-end scenario 6): an undercurrent active pump
// triggers a changeover that overlaps both pumps enabled for 5 s before
// settling on the new active pump.
func TestSupervisePumpsFailoverOverlap(t *testing.T) {
	cfg := DefaultConfig()
	now := fixedNow()

	state := PumpState{
		Active:              Pump1,
		RotationStart:       now,
		LastFailoverInstant: now.Add(-60 * time.Second),
	}
	current := [3]float64{2, 0, 0} // pump1 at 2A, below the 10A floor

	res := supervisePumps(cfg, state, current, now, 7*time.Second, 1)
	if res.State.Changeover == nil || res.State.Changeover.NewPump != Pump2 {
		t.Fatalf("expected changeover to pump2, got %+v", res.State.Changeover)
	}
	if !res.Enabled[0] || !res.Enabled[1] {
		t.Errorf("both pump1 and pump2 should be enabled during changeover, got %v", res.Enabled)
	}

	// 6 s later: still within the 5 s overlap boundary? No - elapsed=6s > 5s overlap already.
	mid := now.Add(6 * time.Second)
	res2 := supervisePumps(cfg, res.State, current, mid, 7*time.Second, 1)
	if res2.State.Changeover != nil {
		t.Fatalf("expected changeover to complete once overlap elapses, got %+v", res2.State.Changeover)
	}
	if res2.State.Active != Pump2 {
		t.Errorf("active = %v, want Pump2", res2.State.Active)
	}
	if !res2.Enabled[1] || res2.Enabled[0] {
		t.Errorf("only pump2 should be enabled after changeover settles, got %v", res2.Enabled)
	}
}

func TestSupervisePumpsWithinOverlapBothEnabled(t *testing.T) {
	cfg := DefaultConfig()
	now := fixedNow()
	state := PumpState{Active: Pump1, RotationStart: now}
	state.Changeover = &PumpChangeover{NewPump: Pump2, StartInstant: now}

	res := supervisePumps(cfg, state, [3]float64{20, 20, 20}, now.Add(3*time.Second), 7*time.Second, 1)
	if !res.Enabled[0] || !res.Enabled[1] {
		t.Errorf("expected both pumps enabled 3s into a 5s overlap, got %v", res.Enabled)
	}
}

func TestSupervisePumpsZeroDemandForcesAllOff(t *testing.T) {
	cfg := DefaultConfig()
	now := fixedNow()
	state := PumpState{Active: Pump1, RotationStart: now}

	res := supervisePumps(cfg, state, [3]float64{20, 20, 20}, now, 7*time.Second, 0)
	if res.Enabled != ([3]bool{}) {
		t.Errorf("expected all pumps off at zero demand, got %v", res.Enabled)
	}
}

func TestSupervisePumpsRotationAfterSevenDays(t *testing.T) {
	cfg := DefaultConfig()
	now := fixedNow()
	state := PumpState{
		Active:        Pump1,
		RotationStart: now.Add(-8 * 24 * time.Hour),
	}

	res := supervisePumps(cfg, state, [3]float64{20, 20, 20}, now, 7*time.Second, 1)
	if res.State.Changeover == nil || res.State.Changeover.NewPump != Pump2 {
		t.Fatalf("expected weekly-rotation changeover to pump2, got %+v", res.State.Changeover)
	}
}
