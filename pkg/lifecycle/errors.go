// SPDX-License-Identifier: BSD-3-Clause

package lifecycle

import "errors"

var (
	// ErrInvalidTransition indicates a trigger that is not valid from the
	// current tower or pump phase.
	ErrInvalidTransition = errors.New("lifecycle: invalid phase transition")
)
