// SPDX-License-Identifier: MPL-2.0

package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"wharf-cli/internal/issue"
)

var (
	// ErrInvalidPortMapping is the sentinel error wrapped by InvalidPortMappingError.
	ErrInvalidPortMapping = errors.New("invalid port mapping")

	// ErrInvalidVolumeMount is the sentinel error wrapped by InvalidVolumeMountError.
	ErrInvalidVolumeMount = errors.New("invalid volume mount")
)

type (
	// ExecCommandFunc creates the exec.Cmd for an engine invocation.
	// Tests inject fakes here.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// BaseCLIEngineOption configures a BaseCLIEngine.
	BaseCLIEngineOption func(*BaseCLIEngine)

	// BaseCLIEngine implements the operations shared by all CLI-backed
	// engines. DockerEngine and PodmanEngine embed it; engine-specific
	// behavior (Name, Available, Version) stays on the concrete types.
	BaseCLIEngine struct {
		name        string
		binaryPath  string
		execCommand ExecCommandFunc
	}

	// PortMapping publishes a container port on the host.
	PortMapping struct {
		HostPort      uint16
		ContainerPort uint16
	}

	// VolumeMount binds a host path into the container.
	VolumeMount struct {
		HostPath      string
		ContainerPath string
		ReadOnly      bool
	}

	// InvalidPortMappingError is returned when a PortMapping has a zero port.
	InvalidPortMappingError struct {
		Value PortMapping
	}

	// InvalidVolumeMountError is returned when a VolumeMount has an empty path.
	InvalidVolumeMountError struct {
		Value VolumeMount
	}
)

// Error implements the error interface for InvalidPortMappingError.
func (e *InvalidPortMappingError) Error() string {
	return fmt.Sprintf("invalid port mapping %d:%d: ports must be greater than zero", e.Value.HostPort, e.Value.ContainerPort)
}

// Unwrap returns ErrInvalidPortMapping for errors.Is() compatibility.
func (e *InvalidPortMappingError) Unwrap() error { return ErrInvalidPortMapping }

// Validate returns an error when either port is zero.
func (p PortMapping) Validate() error {
	if p.HostPort == 0 || p.ContainerPort == 0 {
		return &InvalidPortMappingError{Value: p}
	}
	return nil
}

// String returns the mapping in "host:container" form for the -p flag.
func (p PortMapping) String() string {
	return fmt.Sprintf("%d:%d", p.HostPort, p.ContainerPort)
}

// ParsePortMapping parses "hostPort:containerPort" into a PortMapping.
func ParsePortMapping(s string) (PortMapping, error) {
	host, cont, ok := strings.Cut(s, ":")
	if !ok {
		return PortMapping{}, fmt.Errorf("invalid port mapping %q: must contain ':' separator", s)
	}
	h, err := strconv.ParseUint(host, 10, 16)
	if err != nil {
		return PortMapping{}, fmt.Errorf("invalid host port %q: %w", host, err)
	}
	c, err := strconv.ParseUint(cont, 10, 16)
	if err != nil {
		return PortMapping{}, fmt.Errorf("invalid container port %q: %w", cont, err)
	}
	m := PortMapping{HostPort: uint16(h), ContainerPort: uint16(c)}
	if err := m.Validate(); err != nil {
		return PortMapping{}, err
	}
	return m, nil
}

// Error implements the error interface for InvalidVolumeMountError.
func (e *InvalidVolumeMountError) Error() string {
	return fmt.Sprintf("invalid volume mount %q:%q: both paths must be non-empty", e.Value.HostPath, e.Value.ContainerPath)
}

// Unwrap returns ErrInvalidVolumeMount for errors.Is() compatibility.
func (e *InvalidVolumeMountError) Unwrap() error { return ErrInvalidVolumeMount }

// Validate returns an error when either path is empty or whitespace-only.
func (v VolumeMount) Validate() error {
	if strings.TrimSpace(v.HostPath) == "" || strings.TrimSpace(v.ContainerPath) == "" {
		return &InvalidVolumeMountError{Value: v}
	}
	return nil
}

// String returns the mount in "host:container[:ro]" form for the -v flag.
func (v VolumeMount) String() string {
	s := v.HostPath + ":" + v.ContainerPath
	if v.ReadOnly {
		s += ":ro"
	}
	return s
}

// WithName sets the engine name used in error messages.
func WithName(name string) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) { e.name = name }
}

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) { e.execCommand = fn }
}

// NewBaseCLIEngine creates a base engine over the given binary path.
func NewBaseCLIEngine(binaryPath string, opts ...BaseCLIEngineOption) *BaseCLIEngine {
	e := &BaseCLIEngine{
		binaryPath:  binaryPath,
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BinaryPath returns the path to the engine binary.
func (e *BaseCLIEngine) BinaryPath() string { return e.binaryPath }

// BuildArgs constructs the argument list for an image build.
//
// Generated command: <binary> build [options] <context>
func (e *BaseCLIEngine) BuildArgs(opts BuildOptions) []string {
	args := []string{"build"}

	if opts.Dockerfile != "" {
		dockerfilePath := opts.Dockerfile
		if !filepath.IsAbs(dockerfilePath) && opts.ContextDir != "" {
			dockerfilePath = filepath.Join(opts.ContextDir, dockerfilePath)
		}
		args = append(args, "-f", dockerfilePath)
	}

	if opts.Tag != "" {
		args = append(args, "-t", string(opts.Tag))
	}

	if opts.NoCache {
		args = append(args, "--no-cache")
	}

	args = append(args, opts.ContextDir)
	return args
}

// RunArgs constructs the argument list for a container run.
//
// Generated command: <binary> run [options] <image> [command...]
func (e *BaseCLIEngine) RunArgs(opts RunOptions) []string {
	args := []string{"run"}

	if opts.Remove {
		args = append(args, "--rm")
	}

	if opts.Name != "" {
		args = append(args, "--name", string(opts.Name))
	}

	for k, v := range opts.Env {
		args = append(args, "-e", fmt.Sprintf("%s=%s", k, v))
	}

	for _, p := range opts.Ports {
		args = append(args, "-p", p.String())
	}

	for _, v := range opts.Volumes {
		args = append(args, "-v", v.String())
	}

	args = append(args, string(opts.Image))
	args = append(args, opts.Command...)
	return args
}

// RemoveArgs constructs the argument list for a container remove.
func (e *BaseCLIEngine) RemoveArgs(id ContainerID, force bool) []string {
	args := []string{"rm"}
	if force {
		args = append(args, "-f")
	}
	return append(args, string(id))
}

// RemoveImageArgs constructs the argument list for an image remove.
func (e *BaseCLIEngine) RemoveImageArgs(image ImageTag, force bool) []string {
	args := []string{"rmi"}
	if force {
		args = append(args, "-f")
	}
	return append(args, string(image))
}

// CreateCommand creates an exec.Cmd for the given engine arguments.
// Callers customize stdin/stdout/stderr on the returned command.
func (e *BaseCLIEngine) CreateCommand(ctx context.Context, args ...string) *exec.Cmd {
	return e.execCommand(ctx, e.binaryPath, args...)
}

// RunCommandStatus executes a command and returns only its error status.
func (e *BaseCLIEngine) RunCommandStatus(ctx context.Context, args ...string) error {
	if err := e.CreateCommand(ctx, args...).Run(); err != nil {
		return fmt.Errorf("command %s %v failed: %w", e.binaryPath, args, err)
	}
	return nil
}

// RunCommandWithOutput executes a command with stdout captured.
func (e *BaseCLIEngine) RunCommandWithOutput(ctx context.Context, args ...string) (string, error) {
	cmd := e.CreateCommand(ctx, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("command %s %v failed: %w", e.binaryPath, args, err)
	}
	return out.String(), nil
}

// Build builds an image from a Dockerfile. Options are validated first so
// malformed calls fail before the engine is invoked.
func (e *BaseCLIEngine) Build(ctx context.Context, opts BuildOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	cmd := e.CreateCommand(ctx, e.BuildArgs(opts)...)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	if err := cmd.Run(); err != nil {
		return buildImageError(e.name, opts, err)
	}
	return nil
}

// Run runs a container to completion. A non-zero container exit code is
// reported in RunResult.ExitCode, not as an error; only infrastructure
// failures set RunResult.Error.
func (e *BaseCLIEngine) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	cmd := e.CreateCommand(ctx, e.RunArgs(opts)...)
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	err := cmd.Run()

	result := &RunResult{ContainerID: opts.Name}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
			result.Error = err
		}
	}
	return result, nil
}

// Remove removes a container.
func (e *BaseCLIEngine) Remove(ctx context.Context, id ContainerID, force bool) error {
	return e.RunCommandStatus(ctx, e.RemoveArgs(id, force)...)
}

// ImageExists checks whether an image is present locally.
func (e *BaseCLIEngine) ImageExists(ctx context.Context, image ImageTag) (bool, error) {
	err := e.RunCommandStatus(ctx, "image", "inspect", string(image))
	return err == nil, nil
}

// RemoveImage removes an image.
func (e *BaseCLIEngine) RemoveImage(ctx context.Context, image ImageTag, force bool) error {
	return e.RunCommandStatus(ctx, e.RemoveImageArgs(image, force)...)
}

// buildImageError creates an actionable error for image build failures.
func buildImageError(engine string, opts BuildOptions, cause error) error {
	ctx := issue.NewErrorContext().WithOperation("build container image")

	switch {
	case opts.Tag != "":
		ctx.WithResource(string(opts.Tag))
	case opts.ContextDir != "":
		ctx.WithResource(filepath.Join(opts.ContextDir, "Dockerfile"))
	}

	ctx.WithSuggestion("Check that every manifest dependency resolves (a failed install aborts the build)")
	ctx.WithSuggestion("Ensure the base image is pullable (try: " + engine + " pull <base-image>)")
	ctx.WithSuggestion("Re-run with --verbose to see the full build output")

	return ctx.Wrap(cause).BuildError()
}
