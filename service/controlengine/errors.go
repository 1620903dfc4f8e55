// SPDX-License-Identifier: BSD-3-Clause

package controlengine

import "errors"

var (
	// ErrInvalidConfiguration indicates the control engine's plant
	// configuration failed validation at startup.
	ErrInvalidConfiguration = errors.New("invalid control engine configuration")
)
