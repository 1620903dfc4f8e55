// SPDX-License-Identifier: BSD-3-Clause

package control

// safetyResult carries the outcome of the safety gate evaluation.
type safetyResult struct {
	Tripped bool
	Faults  []string
	Bypasses []string
}

// evaluateSafety is the safety gate (spec §2 component 3, §4.2). It
// evaluates critical fault conditions under their respective bypass
// flags. The caller short-circuits to a safe-shutdown output if Tripped.
func evaluateSafety(cfg Config, r sanitizedReadings) safetyResult {
	var res safetyResult

	if cfg.c.bypassVibration {
		res.Bypasses = append(res.Bypasses, "vibration")
	}
	if cfg.c.bypassCurrent {
		res.Bypasses = append(res.Bypasses, "current")
	}
	if cfg.c.bypassPumpStatus {
		res.Bypasses = append(res.Bypasses, "pump-status")
	}
	if cfg.c.bypassVFDFault {
		res.Bypasses = append(res.Bypasses, "vfd-fault")
	}

	if !cfg.c.bypassVibration {
		for _, t := range Towers {
			if r.Vibration[t.Index()] > cfg.c.vibrationCritical {
				res.Faults = append(res.Faults, faultHighVibrationCritical(t))
			}
		}
	}

	if !cfg.c.bypassCurrent && !cfg.c.bypassVFDFault {
		for _, t := range Towers {
			legs := r.TowerCurrent[t.Index()]
			if legs[0] > cfg.c.vfdCurrentCritical || legs[1] > cfg.c.vfdCurrentCritical {
				res.Faults = append(res.Faults, faultCriticalVFDCurrent(t))
			}
		}
	}

	if !cfg.c.bypassCurrent && !cfg.c.bypassPumpStatus {
		for _, p := range Pumps {
			if r.PumpCurrent[p.Index()] > cfg.c.pumpCurrentMax {
				res.Faults = append(res.Faults, faultPumpOvercurrent(p))
			}
		}
	}

	res.Tripped = len(res.Faults) > 0
	return res
}

// safeShutdownCommands builds the safe-shutdown output (§4.2): all fan
// enables off and speeds 0, all isolation valves commanded closed, pumps
// off, heaters preserved in their last-known state, tempering and bypass
// at 2.0 V, alarm critical.
func safeShutdownCommands(state PlantState, r sanitizedReadings, faults []string, bypasses []string, leadTower Tower) Commands {
	var cmd Commands
	for i := range cmd.Towers {
		cmd.Towers[i] = TowerCommand{
			VFDEnable:      false,
			FanSpeed:       0,
			IsolationOpen:  false,
			IsolationClose: true,
			HeaterEnable:   state.HeaterOn[i],
		}
	}
	cmd.Pumps = [3]bool{}
	cmd.BypassValvePosition = 2.0
	cmd.TemperingValvePosition = 2.0
	cmd.AlarmStatus = AlarmCritical
	cmd.FaultConditions = faults
	cmd.SafetyBypasses = bypasses
	cmd.LeadTower = leadTower
	cmd.ActiveTowers = 0
	cmd.TowerSupplyTemp = r.TowerSupply
	cmd.TowerReturnTemp = r.TowerReturn
	cmd.HPReturnTemp = r.HPReturn
	cmd.HPSupplyTemp = r.HPSupply
	cmd.OutdoorTemp = r.Outdoor
	cmd.TargetSupply = r.Setpoint
	return cmd
}
