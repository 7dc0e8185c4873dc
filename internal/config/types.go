// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ContainerEngineAuto picks whichever engine is available (Docker first).
	ContainerEngineAuto ContainerEngine = "auto"
	// ContainerEngineDocker uses Docker as the container engine.
	ContainerEngineDocker ContainerEngine = "docker"
	// ContainerEnginePodman uses Podman as the container engine.
	ContainerEnginePodman ContainerEngine = "podman"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ContainerEngine specifies which container engine wharf uses.
	ContainerEngine string

	// InvalidContainerEngineError is returned when a ContainerEngine value is
	// not recognized. It wraps ErrInvalidContainerEngine for errors.Is().
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not
	// recognized. It wraps ErrInvalidColorScheme for errors.Is().
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError is returned when a Config has invalid fields. It
	// wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ContainerEngine specifies "auto", "docker", or "podman".
		ContainerEngine ContainerEngine `json:"container_engine" mapstructure:"container_engine"`
		// Servicefile is the recipe filename looked up in the working directory.
		Servicefile string `json:"servicefile" mapstructure:"servicefile"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Bake configures image baking behavior.
		Bake BakeConfig `json:"bake" mapstructure:"bake"`
		// Launch configures container launch behavior.
		Launch LaunchConfig `json:"launch" mapstructure:"launch"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme is "auto", "dark", or "light".
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug-level logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// BakeConfig configures image baking behavior.
	BakeConfig struct {
		// NoCache always rebuilds, ignoring existing content-addressed images.
		NoCache bool `json:"no_cache" mapstructure:"no_cache"`
		// ContextParent overrides where temporary build contexts are created.
		ContextParent string `json:"context_parent" mapstructure:"context_parent"`
	}

	// LaunchConfig configures container launch behavior.
	LaunchConfig struct {
		// AutoRemove deletes the container after it exits.
		AutoRemove bool `json:"auto_remove" mapstructure:"auto_remove"`
		// HostPort publishes the service on this host port. Zero means the
		// recipe port.
		HostPort uint16 `json:"host_port" mapstructure:"host_port"`
	}
)

// Validate returns an error unless the engine is auto, docker, or podman.
func (e ContainerEngine) Validate() error {
	switch e {
	case ContainerEngineAuto, ContainerEngineDocker, ContainerEnginePodman:
		return nil
	default:
		return &InvalidContainerEngineError{Value: e}
	}
}

// Error implements the error interface for InvalidContainerEngineError.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q: must be \"auto\", \"docker\", or \"podman\"", e.Value)
}

// Unwrap returns ErrInvalidContainerEngine for errors.Is() compatibility.
func (e *InvalidContainerEngineError) Unwrap() error { return ErrInvalidContainerEngine }

// Validate returns an error unless the scheme is auto, dark, or light.
func (s ColorScheme) Validate() error {
	switch s {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: s}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q: must be \"auto\", \"dark\", or \"light\"", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks every typed field of the configuration.
func (c *Config) Validate() error {
	var errs []error
	if err := c.ContainerEngine.Validate(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.Servicefile) == "" {
		errs = append(errs, errors.New("servicefile name must be non-empty"))
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// DefaultConfig returns the built-in configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		ContainerEngine: ContainerEngineAuto,
		Servicefile:     "servicefile.cue",
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
		Launch: LaunchConfig{
			AutoRemove: true,
		},
	}
}
