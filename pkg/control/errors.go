// SPDX-License-Identifier: BSD-3-Clause

package control

import "errors"

// Sentinel errors returned by Config.Validate. Step itself never returns
// an error — invalid carried state or sensor input is handled internally
// per §7 — but Config is assembled once at boot time from external
// configuration, a system boundary worth validating explicitly.
var (
	ErrNoTowerAvailable = errors.New("control: no tower configured available")
	ErrNoPumpAvailable  = errors.New("control: no pump configured available")
)

// Validate reports whether c is usable: at least one tower and one pump
// must be configured available, or the staging decider and pump
// supervisor can never select a duty assignment.
func (c Config) Validate() error {
	anyTower := false
	for _, ok := range c.c.towerAvailable {
		anyTower = anyTower || ok
	}
	if !anyTower {
		return ErrNoTowerAvailable
	}

	anyPump := false
	for _, ok := range c.c.pumpAvailable {
		anyPump = anyPump || ok
	}
	if !anyPump {
		return ErrNoPumpAvailable
	}

	return nil
}
