// SPDX-License-Identifier: BSD-3-Clause

package pidctl

import (
	"time"

	"go.einride.tech/pid"
)

// State is the carried PID state threaded across calls, per the §6
// contract: {integral, previous_error, last_output}.
type State struct {
	Integral      float64
	PreviousError float64
	LastOutput    float64
}

// Params configures one PID invocation, per the §6 contract.
type Params struct {
	Kp, Ki, Kd    float64
	Min, Max      float64
	ReverseActing bool
	MaxIntegral   float64
}

// Input bundles the arguments to Run.
type Input struct {
	Value    float64
	Setpoint float64
	Params   Params
	Dt       time.Duration
	State    State
}

// Output is the result of one PID invocation.
type Output struct {
	Output float64
	P, I, D float64
	Error   float64
}

// Run evaluates one PID step against go.einride.tech/pid's Controller,
// implementing the external PID contract: pid(input, setpoint, params,
// dt, state) -> {output, P, I, D, error, state'}.
//
// ReverseActing is implemented by swapping which signal is taken as the
// controller's reference: direct-acting control (output rises as Value
// rises above Setpoint, as with tower fan speed driven by supply
// temperature) feeds Value as the reference and Setpoint as the actual
// signal so the underlying error is Value-Setpoint; reverse-acting
// control (output rises as Value falls below Setpoint, as with a heating
// valve) feeds the arguments in the library's natural order so the
// underlying error is Setpoint-Value.
func Run(in Input) (Output, State, error) {
	maxIntegral := in.Params.MaxIntegral
	if maxIntegral == 0 {
		maxIntegral = defaultMaxIntegral
	}

	ctrl := pid.Controller{
		Config: pid.ControllerConfig{
			ProportionalGain: in.Params.Kp,
			IntegralGain:     in.Params.Ki,
			DerivativeGain:   in.Params.Kd,
			MaxOutput:        in.Params.Max,
			MinOutput:        in.Params.Min,
			MaxIntegral:      maxIntegral,
			MinIntegral:      -maxIntegral,
		},
		State: pid.ControllerState{
			ControlErrorIntegral: in.State.Integral,
			ControlError:         in.State.PreviousError,
			ControlSignal:        in.State.LastOutput,
		},
	}

	reference, actual := in.Value, in.Setpoint
	if in.Params.ReverseActing {
		reference, actual = in.Setpoint, in.Value
	}

	ctrl.Update(pid.ControllerInput{
		ReferenceSignal:  reference,
		ActualSignal:     actual,
		SamplingInterval: in.Dt,
	})

	out := Output{
		Output: ctrl.State.ControlSignal,
		P:      in.Params.Kp * ctrl.State.ControlError,
		I:      in.Params.Ki * ctrl.State.ControlErrorIntegral,
		D:      in.Params.Kd * ctrl.State.ControlErrorDerivative,
		Error:  ctrl.State.ControlError,
	}

	next := State{
		Integral:      ctrl.State.ControlErrorIntegral,
		PreviousError: ctrl.State.ControlError,
		LastOutput:    ctrl.State.ControlSignal,
	}

	return out, next, nil
}

// defaultMaxIntegral bounds anti-windup when a caller does not specify
// MaxIntegral explicitly.
const defaultMaxIntegral = 1000
