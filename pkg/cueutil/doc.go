// SPDX-License-Identifier: MPL-2.0

// Package cueutil implements the shared CUE parsing flow used for wharf's
// schema-validated files (servicefile recipes and the CLI configuration).
//
// The flow is always the same three steps: compile the embedded schema,
// compile and unify the user's file against it, then validate and decode
// into a Go struct. Validation errors are rendered with JSON-path prefixes
// so users can locate the offending field.
package cueutil
