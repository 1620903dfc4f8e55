// SPDX-License-Identifier: BSD-3-Clause

package control

import (
	"time"

	"github.com/towerctl/towerctl/pkg/pidctl"
)

// RunPhase tags a tower's run-state variant. TowerRunState carries a
// single timestamp whose meaning depends on the phase, so "both timers
// set" cannot be represented; the constructors below build each variant.
// This replaces the nullable {start_time?, stop_time?} pair
// from the source representation (spec §9) with a tagged variant,
// making invariant "exactly one of start_time/stop_time is set" trivial.
type RunPhase int

const (
	PhaseOff RunPhase = iota
	PhaseRunning
	PhaseCooldown
)

// TowerRunState is the per-tower run-state variant.
type TowerRunState struct {
	Phase RunPhase
	// At is the start instant when Phase==PhaseRunning, or the stop
	// instant when Phase==PhaseCooldown. Zero and unused when PhaseOff.
	At time.Time
}

// IdleTowerState returns the off/idle variant (neither timer set).
func IdleTowerState() TowerRunState { return TowerRunState{Phase: PhaseOff} }

// RunningTowerState returns the running variant with the given start time.
func RunningTowerState(start time.Time) TowerRunState {
	return TowerRunState{Phase: PhaseRunning, At: start}
}

// CooldownTowerState returns the off-cooldown variant with the given stop time.
func CooldownTowerState(stop time.Time) TowerRunState {
	return TowerRunState{Phase: PhaseCooldown, At: stop}
}

// Running reports whether the tower has an active start_time.
func (s TowerRunState) Running() bool { return s.Phase == PhaseRunning }

// InCooldown reports whether the tower has an active stop_time.
func (s TowerRunState) InCooldown() bool { return s.Phase == PhaseCooldown }

// RampState is a tower's VFD ramp filter state.
type RampState struct {
	CurrentVoltage float64
	TargetVoltage  float64
	LastChange     time.Time
	Initialized    bool
}

// PIDState is the carried state for one external PID invocation, per the
// §6 external PID contract: {integral, previous_error, last_output}.
type PIDState = pidctl.State

// PumpChangeover records an in-progress pump changeover (rotation or
// failover).
type PumpChangeover struct {
	NewPump     Pump
	StartInstant time.Time
}

// PumpState is the carried pump-supervisor state.
type PumpState struct {
	Active             Pump
	RotationStart      time.Time
	Changeover         *PumpChangeover
	FailoverCount      int
	LastFailoverInstant time.Time
	RuntimeHours       [3]float64
}

// LoopTemps is the last-known-good value for each of the four loop
// temperatures, seeded with the documented mild defaults.
type LoopTemps struct {
	TowerSupply float64
	TowerReturn float64
	HPReturn    float64
	HPSupply    float64
}

func defaultLoopTemps() LoopTemps {
	return LoopTemps{TowerSupply: 75, TowerReturn: 85, HPReturn: 85, HPSupply: 75}
}

// PlantState is the opaque structure the engine threads across ticks.
// The zero value is not valid; use NewPlantState (the state initializer,
// spec §2 component 1) to obtain one, and thereafter only the value
// returned from Step.
type PlantState struct {
	initialized bool

	LeadTower         Tower
	LeadRotationStart time.Time

	TowerRun  [3]TowerRunState
	TowerRamp [3]RampState
	TowerPID  [3]PIDState

	ValvePID PIDState

	Pump PumpState

	LastGoodTemps LoopTemps

	// HeaterOn carries heater hysteresis state across ticks; it is the
	// single source of truth within the dead band since the heater
	// controller (§4.9) only changes it outside [35, 45] °F.
	HeaterOn [3]bool
}

// NewPlantState is the state initializer (spec §2 component 1): it
// returns a carried state with every required field set to its
// documented default value. ensureInitialized applies it only to a
// state that has not been initialized yet.
func NewPlantState(now time.Time) PlantState {
	return PlantState{
		initialized:       true,
		LeadTower:         Tower1,
		LeadRotationStart: now,
		TowerRun:          [3]TowerRunState{IdleTowerState(), IdleTowerState(), IdleTowerState()},
		Pump: PumpState{
			Active:        Pump1,
			RotationStart: now,
		},
		LastGoodTemps: defaultLoopTemps(),
	}
}

// ensureInitialized returns s unchanged if already initialized, or a
// freshly-initialized state otherwise. Step calls this first so that a
// zero-value PlantState handed in by a new caller is never undefined
// behavior.
func ensureInitialized(s PlantState, now time.Time) PlantState {
	if s.initialized {
		return s
	}
	return NewPlantState(now)
}
