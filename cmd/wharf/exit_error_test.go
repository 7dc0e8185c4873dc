// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"testing"
)

func TestExitErrorMessage(t *testing.T) {
	t.Parallel()

	bare := &ExitError{Code: 3}
	if got := bare.Error(); got != "exit status 3" {
		t.Errorf("Error() = %q", got)
	}

	cause := errors.New("service accounts exited with status 3")
	wrapped := &ExitError{Code: 3, Err: cause}
	if got := wrapped.Error(); got != cause.Error() {
		t.Errorf("Error() = %q, want %q", got, cause.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is() should reach the wrapped cause")
	}
}

func TestExitErrorAs(t *testing.T) {
	t.Parallel()

	var target *ExitError
	err := error(&ExitError{Code: 7})
	if !errors.As(err, &target) {
		t.Fatal("errors.As() failed for *ExitError")
	}
	if target.Code != 7 {
		t.Errorf("Code = %d, want 7", target.Code)
	}
}
