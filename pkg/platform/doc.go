// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes platform-name constants for runtime.GOOS
// comparisons.
package platform
