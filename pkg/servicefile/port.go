// SPDX-License-Identifier: MPL-2.0

package servicefile

import (
	"errors"
	"fmt"
)

// DefaultPort is the listening port used when a recipe does not choose one.
const DefaultPort ListenPort = 8080

// ErrInvalidListenPort is the sentinel error wrapped by InvalidListenPortError.
var ErrInvalidListenPort = errors.New("invalid listen port")

type (
	// ListenPort is the single TCP port the baked image exposes and the
	// server binds. Expose and bind are one value so they cannot drift.
	ListenPort uint16

	// InvalidListenPortError is returned when a ListenPort is zero.
	InvalidListenPortError struct {
		Value ListenPort
	}
)

// String returns the decimal representation of the ListenPort.
func (p ListenPort) String() string { return fmt.Sprintf("%d", p) }

// Validate returns an error when the port is zero.
func (p ListenPort) Validate() error {
	if p == 0 {
		return &InvalidListenPortError{Value: p}
	}
	return nil
}

// Error implements the error interface for InvalidListenPortError.
func (e *InvalidListenPortError) Error() string {
	return fmt.Sprintf("invalid listen port %d: must be greater than zero", e.Value)
}

// Unwrap returns ErrInvalidListenPort for errors.Is() compatibility.
func (e *InvalidListenPortError) Unwrap() error { return ErrInvalidListenPort }
