// SPDX-License-Identifier: BSD-3-Clause

package control

import "time"

// TickPeriod is the caller's observed scheduling period, used for PID dt
// values and runtime-hour accrual. The external runner calls Step on this
// cadence; Step itself performs no scheduling of its own.
const TickPeriod = 7 * time.Second

// Step is the control decision function: a single deterministic,
// non-blocking transform (sensors, ui, state) -> (commands, state'). It
// must be called from a single goroutine, once per control cycle, and
// must not be re-entered while a prior call is outstanding.
//
// now is supplied by the caller rather than read from the system clock
// internally, keeping Step a pure function of its arguments.
func Step(cfg Config, sensors Sensors, ui UIOverrides, state PlantState, now time.Time) (cmd Commands, next PlantState) {
	prior := state
	defer func() {
		if rec := recover(); rec != nil {
			cmd = errorCommands(prior)
			next = prior
		}
	}()

	// 1. State initializer.
	state = ensureInitialized(state, now)

	// 2. Sensor sanitizer.
	readings, loopTemps := sanitize(cfg, sensors, state.LastGoodTemps)
	state.LastGoodTemps = loopTemps

	// 3. Safety gate.
	safety := evaluateSafety(cfg, readings)
	if safety.Tripped {
		return safeShutdownCommands(state, readings, safety.Faults, safety.Bypasses, state.LeadTower), state
	}

	// 4. Lead-tower rotator.
	state.LeadTower, state.LeadRotationStart = rotateLead(cfg, state.LeadTower, state.LeadRotationStart, now)

	// 5. Staging decider.
	staging := decideStaging(cfg, state.TowerRun, readings.HPSupply, readings.TowerSupply, readings.Setpoint, state.LeadTower)

	// 6. Pump supervisor.
	pumps := supervisePumps(cfg, state.Pump, readings.PumpCurrent, now, TickPeriod, staging.Demanded)
	state.Pump = pumps.State

	// 7. Tower commander.
	towerRes := commandTowers(cfg, state, staging, readings.HPSupply, now)

	// 8. Runtime enforcer.
	towerRes = enforceRuntime(cfg, towerRes, staging.DeltaT, readings.HPSupply, now)
	state.TowerRun = towerRes.Run
	state.TowerRamp = towerRes.Ramp
	state.TowerPID = towerRes.PID

	// 9. Valve controller.
	valves := controlValves(cfg, state, readings.Outdoor, readings.HPSupply, readings.HPReturn, ui, now, TickPeriod)
	state.ValvePID = valves.PID

	// 10. Heater controller.
	state.HeaterOn = controlHeaters(state.HeaterOn, readings.Outdoor)

	out := Commands{
		Towers:                 towerRes.Commands,
		Pumps:                  pumps.Enabled,
		BypassValvePosition:    valves.Bypass,
		TemperingValvePosition: valves.Tempering,
		AlarmStatus:            AlarmNormal,
		SafetyBypasses:         safety.Bypasses,
		LeadTower:              state.LeadTower,
		ActiveTowers:           staging.Demanded,
		CoolingDemand:          staging.DemandPercent,
		LoopDeltaT:             staging.DeltaT,
		TargetSupply:           readings.Setpoint,
		ControlMode:            ModeAuto,
		TowerSupplyTemp:        readings.TowerSupply,
		TowerReturnTemp:        readings.TowerReturn,
		HPReturnTemp:           readings.HPReturn,
		HPSupplyTemp:           readings.HPSupply,
		OutdoorTemp:            readings.Outdoor,
		Timestamp:              now,
	}
	for i := range out.Towers {
		out.Towers[i].HeaterEnable = state.HeaterOn[i]
	}

	// 11. Monitoring pass.
	mon := monitorWarnings(cfg, &out.Towers, readings.Vibration, readings.TowerCurrent)
	out.FaultConditions = mon.Faults
	if mon.Warning {
		out.AlarmStatus = AlarmWarning
	}

	// 12. Manual override merger.
	out = mergeOverrides(out, ui)

	return out, state
}

// errorCommands builds the fully-safe error-path output (spec §7): every
// enable off, every isolation valve closed, heaters off, tempering at
// 2 V, alarm=error. Carried state is left untouched by the caller so
// recovery can resume on the next tick.
func errorCommands(state PlantState) Commands {
	var cmd Commands
	for i := range cmd.Towers {
		cmd.Towers[i] = TowerCommand{IsolationClose: true}
	}
	cmd.BypassValvePosition = 2.0
	cmd.TemperingValvePosition = 2.0
	cmd.AlarmStatus = AlarmError
	cmd.FaultConditions = []string{FaultControlSystemError}
	cmd.ControlMode = ModeError
	cmd.LeadTower = state.LeadTower
	return cmd
}
