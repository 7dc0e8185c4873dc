// SPDX-License-Identifier: MPL-2.0

package servicefile

import (
	"errors"
	"fmt"
)

const (
	// DefaultUID is the pinned runtime UID used when a recipe does not
	// choose one. Pinning (rather than letting useradd allocate) keeps
	// volume-mount permissions stable across rebuilds.
	DefaultUID RuntimeUID = 1000

	// DefaultUsername is the runtime username used when a recipe does not
	// choose one.
	DefaultUsername Username = "appuser"
)

var (
	// ErrInvalidUID is the sentinel error wrapped by InvalidUIDError.
	ErrInvalidUID = errors.New("invalid runtime UID")

	// ErrInvalidUsername is the sentinel error wrapped by InvalidUsernameError.
	ErrInvalidUsername = errors.New("invalid runtime username")
)

type (
	// RuntimeUID is the numeric UID of the runtime identity. Zero (root) is
	// never valid: the whole point of the identity step is that nothing
	// after it runs privileged.
	RuntimeUID uint32

	// Username is the login name of the runtime identity.
	Username string

	// RuntimeIdentity is the (UID, username) pair the baked image creates
	// and switches to. Created once per image; the UID is an explicit,
	// stable choice rather than an allocator default.
	RuntimeIdentity struct {
		UID      RuntimeUID `json:"uid"`
		Username Username   `json:"username"`
	}

	// InvalidUIDError is returned when a RuntimeUID is zero or out of the
	// range usable by useradd.
	InvalidUIDError struct {
		Value RuntimeUID
	}

	// InvalidUsernameError is returned when a Username is not a valid
	// POSIX login name.
	InvalidUsernameError struct {
		Value Username
	}
)

// String returns the decimal representation of the RuntimeUID.
func (u RuntimeUID) String() string { return fmt.Sprintf("%d", u) }

// Validate returns an error when the UID is zero (root) or above 65535.
func (u RuntimeUID) Validate() error {
	if u == 0 || u > 65535 {
		return &InvalidUIDError{Value: u}
	}
	return nil
}

// Error implements the error interface for InvalidUIDError.
func (e *InvalidUIDError) Error() string {
	if e.Value == 0 {
		return "invalid runtime UID 0: the runtime identity must not be root"
	}
	return fmt.Sprintf("invalid runtime UID %d: must be in range 1-65535", e.Value)
}

// Unwrap returns ErrInvalidUID for errors.Is() compatibility.
func (e *InvalidUIDError) Unwrap() error { return ErrInvalidUID }

// String returns the string representation of the Username.
func (n Username) String() string { return string(n) }

// Validate returns an error unless the name is a POSIX-style login name:
// a lowercase letter or underscore followed by lowercase letters, digits,
// underscores, or hyphens, at most 32 characters.
func (n Username) Validate() error {
	if n == "" || len(n) > 32 {
		return &InvalidUsernameError{Value: n}
	}
	for i, c := range n {
		switch {
		case c >= 'a' && c <= 'z', c == '_':
		case (c >= '0' && c <= '9') || c == '-':
			if i == 0 {
				return &InvalidUsernameError{Value: n}
			}
		default:
			return &InvalidUsernameError{Value: n}
		}
	}
	return nil
}

// Error implements the error interface for InvalidUsernameError.
func (e *InvalidUsernameError) Error() string {
	return fmt.Sprintf("invalid runtime username %q: must be a POSIX login name", e.Value)
}

// Unwrap returns ErrInvalidUsername for errors.Is() compatibility.
func (e *InvalidUsernameError) Unwrap() error { return ErrInvalidUsername }

// Validate returns an error if either field of the identity is invalid.
func (id RuntimeIdentity) Validate() error {
	var errs []error
	if err := id.UID.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := id.Username.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// DefaultIdentity returns the pinned default runtime identity.
func DefaultIdentity() RuntimeIdentity {
	return RuntimeIdentity{UID: DefaultUID, Username: DefaultUsername}
}
