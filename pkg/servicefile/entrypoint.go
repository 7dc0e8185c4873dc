// SPDX-License-Identifier: MPL-2.0

package servicefile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEntrypoint is the sentinel error wrapped by InvalidEntrypointError.
var ErrInvalidEntrypoint = errors.New("invalid WSGI entrypoint")

type (
	// WSGIEntrypoint names the application callable the HTTP server imports,
	// in "module:callable" form (e.g. "service:app"). The module part may be
	// dotted. The callable itself is an opaque external collaborator; wharf
	// only carries the name into the launch command.
	WSGIEntrypoint string

	// InvalidEntrypointError is returned when a WSGIEntrypoint is not a
	// well-formed "module:callable" reference.
	InvalidEntrypointError struct {
		Value  WSGIEntrypoint
		Reason string
	}
)

// String returns the string representation of the WSGIEntrypoint.
func (e WSGIEntrypoint) String() string { return string(e) }

// Module returns the module part (before the colon). Empty when the
// entrypoint is malformed.
func (e WSGIEntrypoint) Module() string {
	mod, _, ok := strings.Cut(string(e), ":")
	if !ok {
		return ""
	}
	return mod
}

// Callable returns the callable part (after the colon). Empty when the
// entrypoint is malformed.
func (e WSGIEntrypoint) Callable() string {
	_, callable, ok := strings.Cut(string(e), ":")
	if !ok {
		return ""
	}
	return callable
}

// Validate returns an error unless the value is "module:callable" where
// module is a dotted chain of Python identifiers and callable is a single
// identifier.
func (e WSGIEntrypoint) Validate() error {
	mod, callable, ok := strings.Cut(string(e), ":")
	if !ok {
		return &InvalidEntrypointError{Value: e, Reason: "must contain ':' separating module and callable"}
	}
	if mod == "" || callable == "" {
		return &InvalidEntrypointError{Value: e, Reason: "module and callable must be non-empty"}
	}
	for part := range strings.SplitSeq(mod, ".") {
		if !isIdentifier(part) {
			return &InvalidEntrypointError{Value: e, Reason: fmt.Sprintf("module segment %q is not an identifier", part)}
		}
	}
	if !isIdentifier(callable) {
		return &InvalidEntrypointError{Value: e, Reason: fmt.Sprintf("callable %q is not an identifier", callable)}
	}
	return nil
}

// isIdentifier reports whether s is an ASCII identifier: a letter or
// underscore followed by letters, digits, or underscores.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Error implements the error interface for InvalidEntrypointError.
func (e *InvalidEntrypointError) Error() string {
	return fmt.Sprintf("invalid WSGI entrypoint %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidEntrypoint for errors.Is() compatibility.
func (e *InvalidEntrypointError) Unwrap() error { return ErrInvalidEntrypoint }
