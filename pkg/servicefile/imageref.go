// SPDX-License-Identifier: MPL-2.0

package servicefile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidImageRef is the sentinel error wrapped by InvalidImageRefError.
var ErrInvalidImageRef = errors.New("invalid image reference")

type (
	// ImageRef is a container image reference (e.g. "python:3.9-slim").
	// Full reference grammar is the engine's concern; wharf only rejects
	// values that cannot possibly be references.
	ImageRef string

	// InvalidImageRefError is returned when an ImageRef is empty,
	// whitespace-only, or contains whitespace.
	InvalidImageRefError struct {
		Value ImageRef
	}
)

// String returns the string representation of the ImageRef.
func (r ImageRef) String() string { return string(r) }

// Validate returns an error when the reference is empty or contains
// whitespace.
func (r ImageRef) Validate() error {
	s := string(r)
	if strings.TrimSpace(s) == "" || strings.ContainsAny(s, " \t\n") {
		return &InvalidImageRefError{Value: r}
	}
	return nil
}

// Error implements the error interface for InvalidImageRefError.
func (e *InvalidImageRefError) Error() string {
	return fmt.Sprintf("invalid image reference %q: must be non-empty without whitespace", e.Value)
}

// Unwrap returns ErrInvalidImageRef for errors.Is() compatibility.
func (e *InvalidImageRefError) Unwrap() error { return ErrInvalidImageRef }
