// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error types for the wharf CLI.
//
// ActionableError carries the failed operation, the resource involved, and
// suggestions for fixing the problem. The ErrorContext builder assembles
// these incrementally so call sites stay readable.
package issue
