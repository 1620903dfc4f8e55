// SPDX-License-Identifier: BSD-3-Clause

package control

// mergeOverrides is the manual override merger (spec §2 component 12,
// §4.10 second half). It applies UI-provided overrides last, after the
// monitoring pass, so an explicit operator command is never undone by a
// warning-triggered speed clamp. Overrides are still subject to the
// safety gate, which runs earlier and short-circuits before this
// function is ever reached.
func mergeOverrides(cmd Commands, ui UIOverrides) Commands {
	if ui.ControlMode != nil {
		cmd.ControlMode = *ui.ControlMode
	}

	for i := range cmd.Towers {
		if ui.TowerVFDEnable[i] != nil {
			cmd.Towers[i].VFDEnable = *ui.TowerVFDEnable[i]
		}
		if ui.TowerFanSpeed[i] != nil {
			cmd.Towers[i].FanSpeed = *ui.TowerFanSpeed[i]
		}
		if ui.TowerHeaterOn[i] != nil {
			cmd.Towers[i].HeaterEnable = *ui.TowerHeaterOn[i]
		}
	}

	if ui.BypassValvePosition != nil {
		cmd.BypassValvePosition = clamp(*ui.BypassValvePosition, 2.0, 10.0)
	}
	if ui.TemperingValvePosition != nil {
		cmd.TemperingValvePosition = clamp(*ui.TemperingValvePosition, 2.0, 10.0)
	}

	if ui.SystemEnabled != nil && !*ui.SystemEnabled {
		for i := range cmd.Towers {
			cmd.Towers[i].VFDEnable = false
			cmd.Towers[i].FanSpeed = 0
		}
		cmd.Pumps = [3]bool{}
	}

	return cmd
}
