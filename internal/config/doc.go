// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates the wharf application configuration.
// Configuration lives in a CUE file under the platform config directory and
// is validated against an embedded schema before use; a missing file means
// defaults.
package config
