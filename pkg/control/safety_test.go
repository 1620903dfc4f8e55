// SPDX-License-Identifier: BSD-3-Clause

package control

import "testing"

func TestEvaluateSafetyTripsOnVibrationCritical(t *testing.T) {
	cfg := DefaultConfig()
	r := sanitizedReadings{Vibration: [3]float64{7.2, 0, 0}}

	res := evaluateSafety(cfg, r)
	if !res.Tripped {
		t.Fatal("expected safety gate to trip on vibration critical")
	}
	if len(res.Faults) != 1 || res.Faults[0] != "TOWER1_HIGH_VIBRATION_CRITICAL" {
		t.Errorf("faults = %v, want [TOWER1_HIGH_VIBRATION_CRITICAL]", res.Faults)
	}
}

func TestEvaluateSafetyBypassSuppressesFault(t *testing.T) {
	cfg := New(WithSafetyBypasses(false, false, true, false, false, false))
	r := sanitizedReadings{Vibration: [3]float64{9.0, 0, 0}}

	res := evaluateSafety(cfg, r)
	if res.Tripped {
		t.Fatal("bypassed vibration domain should not trip the safety gate")
	}
}

func TestEvaluateSafetyVFDCurrentEitherLeg(t *testing.T) {
	cfg := DefaultConfig()
	r := sanitizedReadings{TowerCurrent: [3][2]float64{{10, 50}, {0, 0}, {0, 0}}}

	res := evaluateSafety(cfg, r)
	if !res.Tripped {
		t.Fatal("expected trip when the second leg alone exceeds critical")
	}
}

func TestEvaluateSafetyPumpOvercurrent(t *testing.T) {
	cfg := DefaultConfig()
	r := sanitizedReadings{PumpCurrent: [3]float64{46, 0, 0}}

	res := evaluateSafety(cfg, r)
	if !res.Tripped || res.Faults[0] != "PUMP1_OVERCURRENT" {
		t.Errorf("faults = %v, want [PUMP1_OVERCURRENT]", res.Faults)
	}
}

func TestSafeShutdownCommandsAssertsCloseAndClearsPumps(t *testing.T) {
	state := NewPlantState(fixedNow())
	r := sanitizedReadings{Setpoint: 75}

	cmd := safeShutdownCommands(state, r, []string{"X"}, nil, Tower1)

	for i, tc := range cmd.Towers {
		if tc.VFDEnable || tc.FanSpeed != 0 || !tc.IsolationClose || tc.IsolationOpen {
			t.Errorf("tower %d not safely shut down: %+v", i, tc)
		}
	}
	if cmd.Pumps != ([3]bool{}) {
		t.Errorf("pumps = %v, want all off", cmd.Pumps)
	}
	if cmd.AlarmStatus != AlarmCritical {
		t.Errorf("alarm = %v, want critical", cmd.AlarmStatus)
	}
	if cmd.BypassValvePosition != 2.0 || cmd.TemperingValvePosition != 2.0 {
		t.Errorf("valves = %v/%v, want 2.0/2.0", cmd.BypassValvePosition, cmd.TemperingValvePosition)
	}
}
