// SPDX-License-Identifier: BSD-3-Clause

package control

import "testing"

func TestSanitizeAcceptsInRangeReadings(t *testing.T) {
	cfg := DefaultConfig()
	sensors := Sensors{CH1: 80, CH2: 90, CH9: 88, CH10: 78, OutdoorTemp: 65}

	r, next := sanitize(cfg, sensors, defaultLoopTemps())

	if r.TowerSupply != 80 || r.TowerReturn != 90 || r.HPReturn != 88 || r.HPSupply != 78 {
		t.Fatalf("unexpected readings: %+v", r)
	}
	if next.TowerSupply != 80 {
		t.Errorf("last-known-good not updated: %+v", next)
	}
}

func TestSanitizeSubstitutesOutOfRangeLoopTemps(t *testing.T) {
	cfg := DefaultConfig()
	prior := defaultLoopTemps()
	sensors := Sensors{CH1: 500, CH2: 90, CH9: 88, CH10: 78}

	r, next := sanitize(cfg, sensors, prior)

	if r.TowerSupply != prior.TowerSupply {
		t.Errorf("out-of-range tower supply should fall back to last-known-good, got %v", r.TowerSupply)
	}
	if next.TowerSupply != prior.TowerSupply {
		t.Errorf("last-known-good should not change on rejection, got %v", next.TowerSupply)
	}
}

func TestSanitizeDefaultsSetpointWhenAbsent(t *testing.T) {
	cfg := DefaultConfig()
	r, _ := sanitize(cfg, Sensors{}, defaultLoopTemps())
	if r.Setpoint != 75 {
		t.Errorf("setpoint = %v, want 75 default", r.Setpoint)
	}
}

func TestSanitizeSetpointOverride(t *testing.T) {
	cfg := DefaultConfig()
	sp := 72.0
	r, _ := sanitize(cfg, Sensors{UserSetpoint: &sp}, defaultLoopTemps())
	if r.Setpoint != 72 {
		t.Errorf("setpoint = %v, want 72", r.Setpoint)
	}
}

func TestSanitizeLegPairing(t *testing.T) {
	cfg := DefaultConfig()
	sensors := Sensors{AI1: 1, AI2: 2, AI3: 3, AI4: 4, AI5: 5, AI6: 6}
	r, _ := sanitize(cfg, sensors, defaultLoopTemps())

	want := [3][2]float64{{1, 4}, {2, 5}, {3, 6}}
	if r.TowerCurrent != want {
		t.Errorf("TowerCurrent = %+v, want %+v", r.TowerCurrent, want)
	}
}

func TestSanitizePumpCurrentOrdering(t *testing.T) {
	cfg := DefaultConfig()
	sensors := Sensors{CH5: 11, CH6: 12, CH8: 13}
	r, _ := sanitize(cfg, sensors, defaultLoopTemps())

	want := [3]float64{13, 11, 12} // pump1=CH8, pump2=CH5, pump3=CH6
	if r.PumpCurrent != want {
		t.Errorf("PumpCurrent = %v, want %v", r.PumpCurrent, want)
	}
}
