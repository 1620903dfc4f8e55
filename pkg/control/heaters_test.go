// SPDX-License-Identifier: BSD-3-Clause

package control

import "testing"

func TestControlHeatersHysteresis(t *testing.T) {
	off := [3]bool{false, false, false}
	on := [3]bool{true, true, true}

	if got := controlHeaters(off, 30); got != on {
		t.Errorf("below 35F should enable all heaters, got %v", got)
	}
	if got := controlHeaters(on, 50); got != off {
		t.Errorf("above 45F should disable all heaters, got %v", got)
	}
	if got := controlHeaters(on, 40); got != on {
		t.Errorf("within dead band should preserve prior ON state, got %v", got)
	}
	if got := controlHeaters(off, 40); got != off {
		t.Errorf("within dead band should preserve prior OFF state, got %v", got)
	}
}
