// SPDX-License-Identifier: BSD-3-Clause

package control

import "testing"

func TestDecideStagingTable(t *testing.T) {
	cfg := DefaultConfig()
	idle := [3]TowerRunState{IdleTowerState(), IdleTowerState(), IdleTowerState()}

	cases := []struct {
		name             string
		hpSupply         float64
		towerSupply      float64
		wantDemanded     int
		wantDemandPct    float64
	}{
		{"hard shutdown on deltaT", 59, 80, 0, 0},      // deltaT = -16 < -15
		{"hard shutdown on hpSupply", 60, 80, 0, 0},    // hpSupply < 65
		{"hard shutdown on towerSupply", 85, 40, 0, 0}, // towerSupply < 50
		{"stage1", 85, 80, 1, 28},                      // deltaT=10
		{"stage2", 95, 80, 2, 60},                      // deltaT=20
		{"stage3", 105, 80, 3, 75},                     // deltaT=30
		{"stage4", 110, 80, 3, 100},                    // deltaT=35
		{"no demand below stage1", 80, 80, 0, 0},       // deltaT=5
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := decideStaging(cfg, idle, c.hpSupply, c.towerSupply, 75, Tower1)
			if res.Demanded != c.wantDemanded {
				t.Errorf("demanded = %d, want %d", res.Demanded, c.wantDemanded)
			}
			if res.DemandPercent != c.wantDemandPct {
				t.Errorf("demand%% = %v, want %v", res.DemandPercent, c.wantDemandPct)
			}
		})
	}
}

func TestDecideStagingRunningBiasNeverBelowRunningCount(t *testing.T) {
	cfg := DefaultConfig()
	now := run2TowersRunning()

	// deltaT = 2, which alone would fall below stage1 (demanded=0), but
	// two towers are already running and deltaT >= -5, so the table's
	// running-bias branch must keep demanded at least 2.
	res := decideStaging(cfg, now, 77, 80, 75, Tower1)
	if res.Demanded < 2 {
		t.Errorf("demanded = %d, want >= 2 (running-bias branch)", res.Demanded)
	}
}

func run2TowersRunning() [3]TowerRunState {
	return [3]TowerRunState{
		RunningTowerState(fixedNow()),
		RunningTowerState(fixedNow()),
		IdleTowerState(),
	}
}

func TestLagTowers(t *testing.T) {
	lag1, lag2 := lagTowers(Tower1)
	if lag1 != Tower2 || lag2 != Tower3 {
		t.Errorf("lag1=%v lag2=%v, want Tower2 Tower3", lag1, lag2)
	}

	lag1, lag2 = lagTowers(Tower3)
	if lag1 != Tower1 || lag2 != Tower2 {
		t.Errorf("lag1=%v lag2=%v, want Tower1 Tower2", lag1, lag2)
	}
}
