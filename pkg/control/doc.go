// SPDX-License-Identifier: BSD-3-Clause

// Package control implements the supervisory control decision function for
// a three-tower evaporative cooling plant serving a heat-pump loop.
//
// The entry point is Step, a single deterministic, non-blocking function
// that ingests a sensor snapshot, UI overrides, and carried plant state,
// and returns a command snapshot plus the next plant state. Step never
// suspends on I/O and is safe to call once per control cycle from a
// single goroutine; it must not be re-entered while a prior call is
// outstanding.
//
// Step is composed of twelve sub-components executed in a fixed order:
// state initialization, sensor sanitization, the safety gate, lead-tower
// rotation, staging, pump supervision, tower commanding, runtime
// enforcement, valve control, heater control, fault monitoring, and
// manual override merging. The order is part of the contract: the safety
// gate observes pre-merge automatic decisions, runtime enforcement runs
// after the commander so it can reverse a commanded shutdown, and manual
// overrides are applied last so they are not clobbered by monitoring's
// speed clamps.
package control
