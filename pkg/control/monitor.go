// SPDX-License-Identifier: BSD-3-Clause

package control

// monitorResult is the monitoring pass's output: warning faults and any
// speed clamps it applied.
type monitorResult struct {
	Faults []string
	Warning bool
}

// monitorWarnings is the monitoring pass (spec §2 component 11, §4.10
// first half). It runs after the commander and runtime enforcer but
// before the manual override merge, raising warning-level faults for
// vibration and VFD current between the warning and critical thresholds
// and clamping the offending tower's commanded speed down to
// fanClampSpeed if it is currently higher.
func monitorWarnings(cfg Config, commands *[3]TowerCommand, vibration [3]float64, current [3][2]float64) monitorResult {
	var res monitorResult

	for i, t := range Towers {
		if vibration[i] >= cfg.c.vibrationWarning && vibration[i] < cfg.c.vibrationCritical {
			res.Faults = append(res.Faults, faultVibrationWarning(t))
			res.Warning = true
			clampSpeed(&commands[i], cfg.c.fanClampSpeed)
		}

		legs := current[i]
		if (legs[0] >= cfg.c.vfdCurrentWarning && legs[0] < cfg.c.vfdCurrentCritical) ||
			(legs[1] >= cfg.c.vfdCurrentWarning && legs[1] < cfg.c.vfdCurrentCritical) {
			res.Faults = append(res.Faults, faultVFDCurrentWarning(t))
			res.Warning = true
			clampSpeed(&commands[i], cfg.c.fanClampSpeed)
		}
	}

	return res
}

func clampSpeed(cmd *TowerCommand, limit float64) {
	if cmd.FanSpeed > limit {
		cmd.FanSpeed = limit
	}
}
