// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"io"
)

const (
	EngineTypeDocker EngineType = "docker"
	EngineTypePodman EngineType = "podman"
)

type (
	// EngineType identifies a container engine implementation.
	EngineType string

	// ImageTag is a container image tag (e.g. "wharf-accounts:3f9c1a2b04de").
	ImageTag string

	// ContainerID is a container identifier or name.
	ContainerID string

	// Engine is the set of container operations wharf needs.
	Engine interface {
		// Name returns the engine name (docker or podman).
		Name() string
		// Available checks whether the engine can be used on this system.
		Available() bool
		// Version returns the engine version.
		Version(ctx context.Context) (string, error)

		// Build builds an image from a Dockerfile.
		Build(ctx context.Context, opts BuildOptions) error
		// Run runs a container to completion.
		Run(ctx context.Context, opts RunOptions) (*RunResult, error)
		// Remove removes a container.
		Remove(ctx context.Context, id ContainerID, force bool) error
		// ImageExists checks whether an image is present locally.
		ImageExists(ctx context.Context, image ImageTag) (bool, error)
		// RemoveImage removes an image.
		RemoveImage(ctx context.Context, image ImageTag, force bool) error
	}

	// BuildOptions configures an image build.
	BuildOptions struct {
		// ContextDir is the build context directory.
		ContextDir string
		// Dockerfile is the Dockerfile path, relative to ContextDir.
		Dockerfile string
		// Tag is the tag applied to the built image.
		Tag ImageTag
		// NoCache disables the engine's layer cache.
		NoCache bool
		// Stdout receives build progress.
		Stdout io.Writer
		// Stderr receives build errors.
		Stderr io.Writer
	}

	// RunOptions configures a container run.
	RunOptions struct {
		// Image is the image to run.
		Image ImageTag
		// Command overrides the image's entry-point command when non-empty.
		Command []string
		// Name is the container name.
		Name ContainerID
		// Env contains environment variables.
		Env map[string]string
		// Ports are port mappings published on the host.
		Ports []PortMapping
		// Volumes are bind mounts.
		Volumes []VolumeMount
		// Remove makes the engine delete the container after exit.
		Remove bool
		// Stdin, Stdout, Stderr wire the container's standard streams.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// RunResult is the outcome of a completed container run. A non-zero
	// exit code is a result, not an error: the container ran and its
	// process reported failure (spec: run-time failures surface as non-zero
	// process exit, recovery is the orchestrator's job).
	RunResult struct {
		// ContainerID is set when known (named runs).
		ContainerID ContainerID
		// ExitCode is the container process's exit code.
		ExitCode int
		// Error holds infrastructure failures (engine missing, etc.).
		Error error
	}

	// ErrEngineNotAvailable is returned when no usable engine is found.
	ErrEngineNotAvailable struct {
		Engine string
		Reason string
	}
)

// Error implements the error interface.
func (e *ErrEngineNotAvailable) Error() string {
	return fmt.Sprintf("container engine %q is not available: %s", e.Engine, e.Reason)
}

// Validate checks the typed fields of BuildOptions.
func (o BuildOptions) Validate() error {
	if o.ContextDir == "" {
		return fmt.Errorf("build options: context directory must be set")
	}
	return nil
}

// Validate checks the typed fields of RunOptions.
func (o RunOptions) Validate() error {
	if o.Image == "" {
		return fmt.Errorf("run options: image must be set")
	}
	for _, p := range o.Ports {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for _, v := range o.Volumes {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// NewEngine creates a container engine of the preferred type, falling back
// to the other CLI engine when the preferred one is unavailable.
func NewEngine(preferred EngineType) (Engine, error) {
	switch preferred {
	case EngineTypeDocker:
		if e := NewDockerEngine(); e.Available() {
			return e, nil
		}
		if e := NewPodmanEngine(); e.Available() {
			return e, nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: "docker",
			Reason: "docker is not installed or not accessible, and the podman fallback is also unavailable",
		}

	case EngineTypePodman:
		if e := NewPodmanEngine(); e.Available() {
			return e, nil
		}
		if e := NewDockerEngine(); e.Available() {
			return e, nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: "podman",
			Reason: "podman is not installed or not accessible, and the docker fallback is also unavailable",
		}

	default:
		return nil, fmt.Errorf("unknown container engine type: %q", preferred)
	}
}

// AutoDetectEngine finds any available container engine, trying Docker
// first, then Podman.
func AutoDetectEngine() (Engine, error) {
	if e := NewDockerEngine(); e.Available() {
		return e, nil
	}
	if e := NewPodmanEngine(); e.Available() {
		return e, nil
	}
	return nil, &ErrEngineNotAvailable{
		Engine: "any",
		Reason: "no container engine (docker or podman) is available on this system",
	}
}
