// SPDX-License-Identifier: BSD-3-Clause

package control

import (
	"time"

	"github.com/towerctl/towerctl/pkg/pidctl"
)

// towerCommandResult is the per-tower output of the commander pass,
// before the runtime enforcer may reverse it.
type towerCommandResult struct {
	Commands [3]TowerCommand
	Run      [3]TowerRunState
	Ramp     [3]RampState
	PID      [3]PIDState
	// Activated marks towers the commander chose to enable this pass,
	// distinguishing them from towers merely carrying a start_time that
	// the runtime enforcer may still need to force back on.
	Activated [3]bool
	BlockedByCooldown [3]bool
}

// commandTowers is the tower commander (spec §2 component 7, §4.5). For
// each tower in duty order [lead, lag1, lag2], with already-running
// towers moved first (dutyOrderPreferRunning), up to demanded count, it
// checks availability and the off-time cooldown gate, opens the
// isolation valve, starts the minimum-runtime timer, and computes fan
// speed. Towers not selected receive enable-off/speed-zero/valve-close.
func commandTowers(cfg Config, state PlantState, staging stagingResult, hpSupply float64, now time.Time) towerCommandResult {
	order := dutyOrderPreferRunning(state, staging)

	var res towerCommandResult
	res.Run = state.TowerRun
	res.Ramp = state.TowerRamp
	res.PID = state.TowerPID

	for i := range res.Commands {
		res.Commands[i] = TowerCommand{IsolationClose: true}
	}

	activated := 0
	for _, t := range order {
		idx := t.Index()
		if activated >= staging.Demanded {
			break
		}

		if !cfg.towerAvailableAt(t) {
			continue
		}

		run := res.Run[idx]
		if run.InCooldown() && now.Sub(run.At) < cfg.c.minOffTime {
			res.BlockedByCooldown[idx] = true
			continue
		}

		if !run.Running() {
			run = RunningTowerState(now)
			// Fresh activation: an off->on transition must always start
			// at the startup floor (§4.5.1), not wherever the ramp/PID
			// state happened to be left from a prior run.
			res.Ramp[idx] = RampState{}
			res.PID[idx] = PIDState{}
		}
		res.Run[idx] = run

		speed, ramp, pid := computeFanSpeed(cfg, run, res.Ramp[idx], res.PID[idx], hpSupply, staging, now)
		res.Ramp[idx] = ramp
		res.PID[idx] = pid

		enable := true
		if speed != 0 && speed < cfg.c.vMin && now.Sub(run.At) >= cfg.c.minRuntime {
			// Sub-minimum coercion (post-ramp, §4.5.1).
			speed = 0
			enable = false
		}

		res.Commands[idx] = TowerCommand{
			VFDEnable:      enable,
			FanSpeed:       speed,
			IsolationOpen:  true,
			IsolationClose: false,
		}
		res.Activated[idx] = true
		activated++
	}

	return res
}

// dutyOrderPreferRunning returns the lead/lag1/lag2 duty order (spec §9)
// with currently-running towers moved ahead of idle/cooldown ones,
// relative order within each group preserved. This keeps already-running
// towers filling the demanded slots instead of the commander activating
// an idle lead tower while a lag tower it would otherwise have left
// running burns the same slot (spec §9, "any tower running" resolution:
// prefer continuing towers already running over starting idle ones).
func dutyOrderPreferRunning(state PlantState, staging stagingResult) [3]Tower {
	base := [3]Tower{staging.Lead, staging.Lag1, staging.Lag2}

	var order [3]Tower
	n := 0
	for _, t := range base {
		if state.TowerRun[t.Index()].Running() {
			order[n] = t
			n++
		}
	}
	for _, t := range base {
		if !state.TowerRun[t.Index()].Running() {
			order[n] = t
			n++
		}
	}
	return order
}

// computeFanSpeed implements §4.5.1: startup floor, maintain band, PID
// modulation with fallback, and the ramp filter.
func computeFanSpeed(cfg Config, run TowerRunState, ramp RampState, pid PIDState, hpSupply float64, staging stagingResult, now time.Time) (float64, RampState, PIDState) {
	tRun := now.Sub(run.At)

	var target float64
	switch {
	case tRun < cfg.c.minRuntime:
		target = cfg.c.vMin
	case absF(staging.DeltaT) < 2:
		// |HP_supply - setpoint| < 2°F maintain band (§4.5.1); DeltaT is
		// HP_supply - setpoint by construction.
		target = cfg.c.vMin
	default:
		out, newState, err := pidctl.Run(pidctl.Input{
			Value:    hpSupply,
			Setpoint: hpSupply - staging.DeltaT,
			Params: pidctl.Params{
				Kp: cfg.c.fanKp, Ki: cfg.c.fanKi, Kd: cfg.c.fanKd,
				Min: cfg.c.vMin,
				Max: cfg.c.vMax,
			},
			Dt:    15 * time.Second,
			State: pid,
		})
		if err != nil {
			newState = pid
			switch {
			case staging.DemandPercent > 50:
				newState.LastOutput = min(newState.LastOutput+0.1, cfg.c.vMax)
			case staging.DemandPercent < 30:
				newState.LastOutput = max(newState.LastOutput-0.1, cfg.c.vMin)
			}
			target = newState.LastOutput
		} else {
			target = out.Output
		}
		pid = newState
	}

	if !ramp.Initialized {
		ramp = RampState{CurrentVoltage: cfg.c.vMin, TargetVoltage: target, LastChange: now, Initialized: true}
	}
	ramp.TargetVoltage = target

	delay := cfg.c.rampUpDelay
	if target < ramp.CurrentVoltage {
		delay = cfg.c.rampDownDelay
	}

	if now.Sub(ramp.LastChange) >= delay {
		ramp.CurrentVoltage = stepToward(ramp.CurrentVoltage, target, cfg.c.rampStep)
		ramp.LastChange = now
	}

	speed := clamp(ramp.CurrentVoltage, cfg.c.vMin, cfg.c.vMax)
	return speed, ramp, pid
}

func stepToward(current, target, step float64) float64 {
	if current < target {
		return min(current+step, target)
	}
	if current > target {
		return max(current-step, target)
	}
	return current
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
