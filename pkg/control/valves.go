// SPDX-License-Identifier: BSD-3-Clause

package control

import (
	"time"

	"github.com/towerctl/towerctl/pkg/pidctl"
)

const (
	warmWeatherThreshold = 42.0
	loopSetpoint         = 45.0
	valveSlewLimit       = 0.4
	valveKp              = 2.5
	valveKi              = 0.15
	valveKd              = 0.05
	valveMin             = 2.0
	valveMax             = 10.0
	valveMaxIntegral     = 50.0
)

// valveResult is the valve controller's per-tick output.
type valveResult struct {
	Bypass   float64
	Tempering float64
	PID      PIDState
}

// controlValves is the valve controller (spec §2 component 9, §4.8). UI
// overrides for bypass/tempering take precedence over automatic control;
// when both are present, automatic control is skipped entirely. Otherwise
// it branches on the warm-weather threshold, driving a direct-acting PID
// against the averaged HP loop temperature in the cold regime.
func controlValves(cfg Config, state PlantState, outdoor, hpSupply, hpReturn float64, ui UIOverrides, now time.Time, dt time.Duration) valveResult {
	if ui.BypassValvePosition != nil && ui.TemperingValvePosition != nil {
		return valveResult{
			Bypass:    clamp(*ui.BypassValvePosition, valveMin, valveMax),
			Tempering: clamp(*ui.TemperingValvePosition, valveMin, valveMax),
			PID:       state.ValvePID,
		}
	}

	if outdoor >= warmWeatherThreshold {
		return valveResult{
			Bypass:    2.0,
			Tempering: 2.0,
			PID:       PIDState{LastOutput: 2.0},
		}
	}

	hpLoop := (hpSupply + hpReturn) / 2
	out, pid, err := pidctl.Run(pidctl.Input{
		Value:    hpLoop,
		Setpoint: loopSetpoint,
		Params: pidctl.Params{
			Kp: valveKp, Ki: valveKi, Kd: valveKd,
			Min: valveMin, Max: valveMax,
			MaxIntegral: valveMaxIntegral,
		},
		Dt:    dt,
		State: state.ValvePID,
	})

	if err != nil {
		pid = state.ValvePID
		tempering := 6.0
		if outdoor < 35 {
			tempering = 7.6
		}
		pid.LastOutput = tempering
		return valveResult{Bypass: 2.0, Tempering: tempering, PID: pid}
	}

	raw := out.Output
	switch {
	case outdoor < 35:
		raw = max(raw, 6.8)
	case outdoor < 40:
		raw = max(raw, 5.2)
	}

	last := state.ValvePID.LastOutput
	tempering := last + clamp(raw-last, -valveSlewLimit, valveSlewLimit)
	pid.LastOutput = tempering

	return valveResult{
		Bypass:    2.0,
		Tempering: clamp(tempering, valveMin, valveMax),
		PID:       pid,
	}
}
