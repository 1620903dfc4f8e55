// SPDX-License-Identifier: BSD-3-Clause

package control

// controlHeaters is the heater controller (spec §2 component 10, §4.9):
// hysteresis on outdoor temperature, enabling all three heaters below
// 35°F, disabling all above 45°F, and preserving prior state in between.
func controlHeaters(prior [3]bool, outdoor float64) [3]bool {
	switch {
	case outdoor < 35:
		return [3]bool{true, true, true}
	case outdoor > 45:
		return [3]bool{false, false, false}
	default:
		return prior
	}
}
