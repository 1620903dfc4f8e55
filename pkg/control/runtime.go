// SPDX-License-Identifier: BSD-3-Clause

package control

import "time"

// enforceRuntime is the runtime enforcer (spec §2 component 8, §4.6). It
// runs after the commander and may reverse a commanded shutdown: a tower
// still carrying a start_time that the commander did not activate this
// pass is either forced back on (inside its minimum runtime, or still
// warranting cooling) or transitioned into its off cooldown.
func enforceRuntime(cfg Config, res towerCommandResult, deltaT, hpSupply float64, now time.Time) towerCommandResult {
	for _, t := range Towers {
		idx := t.Index()
		if res.Activated[idx] {
			continue
		}

		run := res.Run[idx]
		if !run.Running() {
			continue
		}

		tRun := now.Sub(run.At)
		switch {
		case tRun < cfg.c.minRuntime:
			res.Commands[idx] = TowerCommand{
				VFDEnable:     true,
				FanSpeed:      cfg.c.vMin,
				IsolationOpen: true,
			}
		case deltaT < -10 || hpSupply < cfg.c.hpSupplyMin:
			res.Run[idx] = CooldownTowerState(now)
		default:
			// Minimum met but conditions still warrant cooling: reset
			// start_time and force ON, so the tower must dwell through
			// another full minimum-runtime window before it can shut
			// down again, avoiding oscillation near setpoint.
			res.Run[idx] = RunningTowerState(now)
			res.Commands[idx] = TowerCommand{
				VFDEnable:     true,
				FanSpeed:      cfg.c.vMin,
				IsolationOpen: true,
			}
		}
	}
	return res
}
