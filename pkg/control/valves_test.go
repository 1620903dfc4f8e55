// SPDX-License-Identifier: BSD-3-Clause

package control

import (
	"testing"
	"time"
)

func TestControlValvesWarmWeatherClosesBoth(t *testing.T) {
	cfg := DefaultConfig()
	state := NewPlantState(fixedNow())

	res := controlValves(cfg, state, 50, 78, 85, UIOverrides{}, fixedNow(), 7*time.Second)
	if res.Bypass != 2.0 || res.Tempering != 2.0 {
		t.Errorf("warm-weather regime should close both valves to 2.0V, got %v/%v", res.Bypass, res.Tempering)
	}
}

func TestControlValvesUIOverrideTakesPrecedence(t *testing.T) {
	cfg := DefaultConfig()
	state := NewPlantState(fixedNow())
	bypass, tempering := 4.0, 6.0

	ui := UIOverrides{BypassValvePosition: &bypass, TemperingValvePosition: &tempering}
	res := controlValves(cfg, state, 20, 78, 85, ui, fixedNow(), 7*time.Second)
	if res.Bypass != 4.0 || res.Tempering != 6.0 {
		t.Errorf("UI override should take precedence, got %v/%v", res.Bypass, res.Tempering)
	}
}

func TestControlValvesColdRegimeOutdoorFloor(t *testing.T) {
	cfg := DefaultConfig()
	state := NewPlantState(fixedNow())
	state.ValvePID = PIDState{LastOutput: 2.0}

	res := controlValves(cfg, state, 30, 60, 60, UIOverrides{}, fixedNow(), 7*time.Second)
	if res.Tempering < 2.0 {
		t.Errorf("tempering should never fall below the clamp floor, got %v", res.Tempering)
	}
	if res.Bypass != 2.0 {
		t.Errorf("bypass should stay at 2.0V in cold regime, got %v", res.Bypass)
	}
}

func TestControlValvesSlewLimit(t *testing.T) {
	cfg := DefaultConfig()
	state := NewPlantState(fixedNow())
	state.ValvePID = PIDState{LastOutput: 2.0}

	res := controlValves(cfg, state, 20, 30, 30, UIOverrides{}, fixedNow(), 7*time.Second)
	if delta := res.Tempering - 2.0; delta > valveSlewLimit+0.001 {
		t.Errorf("single-tick tempering movement %v exceeds slew limit %v", delta, valveSlewLimit)
	}
}
