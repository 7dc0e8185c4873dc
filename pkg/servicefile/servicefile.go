// SPDX-License-Identifier: MPL-2.0

package servicefile

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wharf-cli/pkg/cueutil"
)

// DefaultFileName is the recipe filename wharf looks for when none is given.
const DefaultFileName = "servicefile.cue"

// ErrInvalidServiceName is the sentinel error wrapped by InvalidServiceNameError.
var ErrInvalidServiceName = errors.New("invalid service name")

//go:embed schema.cue
var schema []byte

type (
	// Servicefile is the decoded recipe document.
	Servicefile struct {
		Service Service `json:"service"`

		// Dir is the directory the recipe was loaded from. Manifest and
		// app_dir paths resolve relative to it. Not part of the document.
		Dir string `json:"-"`
	}

	// Service describes one network service: how its image is baked and
	// how its container is launched.
	Service struct {
		// Name is used in image tags and container names.
		Name ServiceName `json:"name"`

		// BaseImage is the image the bake starts from.
		BaseImage ImageRef `json:"base_image"`

		// Manifest is the dependency manifest path, relative to the recipe.
		Manifest string `json:"manifest"`

		// AppDir is the application package directory, relative to the recipe.
		AppDir string `json:"app_dir"`

		// Entrypoint names the WSGI callable the server imports.
		Entrypoint WSGIEntrypoint `json:"entrypoint"`

		// Port is both the exposed port and the bind port. A single value
		// keeps the expose/bind invariant structural.
		Port ListenPort `json:"port"`

		// LogLevel is the server's log verbosity.
		LogLevel LogLevel `json:"log_level"`

		// Identity is the non-root runtime identity.
		Identity RuntimeIdentity `json:"identity"`
	}

	// ServiceName is a lowercase, DNS-label-like service name.
	ServiceName string

	// InvalidServiceNameError is returned when a ServiceName does not match
	// the allowed pattern.
	InvalidServiceNameError struct {
		Value ServiceName
	}
)

// String returns the string representation of the ServiceName.
func (n ServiceName) String() string { return string(n) }

// Validate returns an error unless the name is a non-empty lowercase
// alphanumeric label (hyphens allowed after the first character).
func (n ServiceName) Validate() error {
	if n == "" {
		return &InvalidServiceNameError{Value: n}
	}
	for i, c := range n {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '-' && i > 0:
		default:
			return &InvalidServiceNameError{Value: n}
		}
	}
	return nil
}

// Error implements the error interface for InvalidServiceNameError.
func (e *InvalidServiceNameError) Error() string {
	return fmt.Sprintf("invalid service name %q: must match [a-z0-9][a-z0-9-]*", e.Value)
}

// Unwrap returns ErrInvalidServiceName for errors.Is() compatibility.
func (e *InvalidServiceNameError) Unwrap() error { return ErrInvalidServiceName }

// Load reads and validates the recipe at path. The CUE schema rejects
// malformed documents; Validate catches the constraints the schema cannot
// express. The returned Servicefile has Dir set to the recipe's directory.
func Load(path string) (*Servicefile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read servicefile: %w", err)
	}
	sf, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	sf.Dir = filepath.Dir(path)
	return sf, nil
}

// Parse validates and decodes recipe bytes. filename is used in error
// messages only.
func Parse(data []byte, filename string) (*Servicefile, error) {
	res, err := cueutil.ParseAndDecode[Servicefile](schema, data, "#Servicefile", cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}
	sf := res.Value
	if err := sf.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return sf, nil
}

// Validate checks every typed field of the recipe. The CUE schema already
// enforces shapes and ranges; this is the defense for recipes constructed
// in code rather than loaded from disk.
func (sf *Servicefile) Validate() error {
	s := &sf.Service

	var errs []error
	if err := s.Name.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := s.BaseImage.Validate(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(s.Manifest) == "" {
		errs = append(errs, errors.New("manifest path must be non-empty"))
	}
	if strings.TrimSpace(s.AppDir) == "" {
		errs = append(errs, errors.New("app_dir must be non-empty"))
	}
	if err := s.Entrypoint.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := s.Port.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := s.LogLevel.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := s.Identity.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ManifestPath resolves the manifest path against the recipe directory.
func (sf *Servicefile) ManifestPath() string {
	return sf.resolve(sf.Service.Manifest)
}

// AppDirPath resolves the application directory against the recipe directory.
func (sf *Servicefile) AppDirPath() string {
	return sf.resolve(sf.Service.AppDir)
}

func (sf *Servicefile) resolve(p string) string {
	if filepath.IsAbs(p) || sf.Dir == "" {
		return p
	}
	return filepath.Join(sf.Dir, p)
}
