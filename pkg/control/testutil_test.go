// SPDX-License-Identifier: BSD-3-Clause

package control

import "time"

// fixedNow returns a fixed reference instant so tests are deterministic
// regardless of wall-clock time.
func fixedNow() time.Time {
	return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
}

func ptrBool(b bool) *bool       { return &b }
func ptrFloat(f float64) *float64 { return &f }
func ptrMode(m ControlMode) *ControlMode { return &m }
