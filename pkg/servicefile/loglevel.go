// SPDX-License-Identifier: MPL-2.0

package servicefile

import (
	"errors"
	"fmt"
)

const (
	LogLevelDebug    LogLevel = "debug"
	LogLevelInfo     LogLevel = "info"
	LogLevelWarning  LogLevel = "warning"
	LogLevelError    LogLevel = "error"
	LogLevelCritical LogLevel = "critical"
)

// ErrInvalidLogLevel is the sentinel error wrapped by InvalidLogLevelError.
var ErrInvalidLogLevel = errors.New("invalid log level")

type (
	// LogLevel is the HTTP server's log verbosity, passed through to the
	// launch command. The accepted values are gunicorn's.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel is not one of the
	// defined levels.
	InvalidLogLevelError struct {
		Value LogLevel
	}
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// Validate returns an error unless the level is one of the defined levels.
// The zero value ("") is not valid; the schema default is "info".
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError, LogLevelCritical:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warning, error, critical)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }
