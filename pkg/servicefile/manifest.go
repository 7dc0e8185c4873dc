// SPDX-License-Identifier: MPL-2.0

package servicefile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInvalidRequirement is the sentinel error wrapped by InvalidRequirementError.
var ErrInvalidRequirement = errors.New("invalid requirement")

// constraint operators in match order: two-character operators first so
// ">=" is not split as ">" + "=1.0".
var constraintOps = []string{"==", ">=", "<=", "~=", "!=", ">", "<"}

type (
	// Manifest is the parsed dependency manifest: an ordered list of
	// requirements. It is read exactly once per bake and never mutated
	// afterwards; entry order is the file order.
	Manifest struct {
		// Path is where the manifest was read from (empty for in-memory parses).
		Path string

		// Entries are the requirements in file order.
		Entries []Requirement
	}

	// Requirement is one (package, version-constraint) pair from the
	// manifest. Constraint is empty when the line pins nothing.
	Requirement struct {
		Name       string
		Constraint string
	}

	// InvalidRequirementError is returned when a manifest line cannot be
	// parsed as a requirement.
	InvalidRequirementError struct {
		Line   int
		Text   string
		Reason string
	}
)

// Error implements the error interface for InvalidRequirementError.
func (e *InvalidRequirementError) Error() string {
	return fmt.Sprintf("line %d: invalid requirement %q: %s", e.Line, e.Text, e.Reason)
}

// Unwrap returns ErrInvalidRequirement for errors.Is() compatibility.
func (e *InvalidRequirementError) Unwrap() error { return ErrInvalidRequirement }

// String returns the requirement in manifest form ("name" or "name==1.2.3").
func (r Requirement) String() string {
	return r.Name + r.Constraint
}

// LoadManifest reads and parses the dependency manifest at path. A missing
// manifest is a hard error: the bake must fail before any later step runs.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dependency manifest: %w", err)
	}
	entries, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("parse dependency manifest %s: %w", path, err)
	}
	return &Manifest{Path: path, Entries: entries}, nil
}

// ParseManifest parses requirements-file bytes into an ordered requirement
// list. Blank lines and comment lines are skipped; inline comments are
// stripped. Lines that are not "name" or "name<op>version" are rejected.
func ParseManifest(data []byte) ([]Requirement, error) {
	var entries []Requirement

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		// Strip inline comments, then surrounding whitespace.
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		req, err := parseRequirementLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		entries = append(entries, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan manifest: %w", err)
	}

	return entries, nil
}

func parseRequirementLine(line string, lineNo int) (Requirement, error) {
	name := line
	constraint := ""

	for _, op := range constraintOps {
		if idx := strings.Index(line, op); idx >= 0 {
			name = strings.TrimSpace(line[:idx])
			constraint = strings.TrimSpace(line[idx:])
			break
		}
	}

	// Trailing extras like "uvicorn[standard]" keep the bracket suffix as
	// part of the name; pip resolves it.
	base := name
	if idx := strings.Index(base, "["); idx >= 0 {
		if !strings.HasSuffix(base, "]") {
			return Requirement{}, &InvalidRequirementError{Line: lineNo, Text: line, Reason: "unclosed extras bracket"}
		}
		base = base[:idx]
	}

	if !isPackageName(base) {
		return Requirement{}, &InvalidRequirementError{Line: lineNo, Text: line, Reason: "package name must match [A-Za-z0-9._-]+ and start/end alphanumeric"}
	}
	if constraint != "" && strings.ContainsAny(constraint, " \t") {
		return Requirement{}, &InvalidRequirementError{Line: lineNo, Text: line, Reason: "version constraint must not contain whitespace"}
	}

	return Requirement{Name: name, Constraint: constraint}, nil
}

// isPackageName reports whether s is a plausible package name: alphanumeric
// at both ends with dots, hyphens, and underscores allowed between.
func isPackageName(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.' || c == '-' || c == '_':
		default:
			return false
		}
	}
	first, last := s[0], s[len(s)-1]
	return isAlnumByte(first) && isAlnumByte(last)
}

func isAlnumByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
