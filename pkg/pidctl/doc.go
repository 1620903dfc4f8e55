// SPDX-License-Identifier: BSD-3-Clause

// Package pidctl implements the external PID library contract specified
// for the cooling-plant control engine: pid(input, setpoint, params, dt,
// state) -> {output, P, I, D, error, state'}. The implementation itself
// is out of scope for the control decision function (spec §1); this
// package exists so the control engine, its tests, and the rest of the
// repository have a concrete, grounded PID to call, built on
// go.einride.tech/pid the same way the teacher's thermal package drives
// a heat-pump PID loop.
package pidctl
