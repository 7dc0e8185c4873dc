// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// FormatError renders a CUE error with the source filename and a JSON path
// to the offending field.
//
// Error format: <file-path>: <json-path>: <message>
//
// Examples:
//   - servicefile.cue: service.identity.uid: value must be >= 1
//   - config.cue: engine: expected string, got int
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		// Not a CUE error; report as-is.
		return fmt.Errorf("%s: %w", filePath, err)
	}

	var lines []string
	for _, e := range cueErrors {
		pathStr := formatPath(errors.Path(e))
		msg := e.Error()

		// CUE sometimes repeats the path inside the message itself.
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, pathStr), ":"))
		}

		if pathStr != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", pathStr, msg))
		} else {
			lines = append(lines, msg)
		}
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath converts CUE's flat path slice (e.g. ["identity", "0", "uid"])
// to JSON-path notation ("identity[0].uid").
func formatPath(path []string) string {
	if len(path) == 0 {
		return ""
	}

	var result strings.Builder
	for i, part := range path {
		isIndex := len(part) > 0
		for _, c := range part {
			if c < '0' || c > '9' {
				isIndex = false
				break
			}
		}

		switch {
		case isIndex && i > 0:
			result.WriteString("[")
			result.WriteString(part)
			result.WriteString("]")
		case i > 0:
			result.WriteString(".")
			result.WriteString(part)
		default:
			result.WriteString(part)
		}
	}

	return result.String()
}
