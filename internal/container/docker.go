// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// DockerEngine implements Engine using the Docker CLI.
type DockerEngine struct {
	*BaseCLIEngine
}

// NewDockerEngine creates a new Docker engine.
func NewDockerEngine(opts ...BaseCLIEngineOption) *DockerEngine {
	path, _ := exec.LookPath("docker")
	allOpts := append([]BaseCLIEngineOption{WithName(string(EngineTypeDocker))}, opts...)
	return &DockerEngine{
		BaseCLIEngine: NewBaseCLIEngine(path, allOpts...),
	}
}

// Name returns the engine name.
func (e *DockerEngine) Name() string {
	return string(EngineTypeDocker)
}

// Available checks whether the Docker daemon is reachable.
func (e *DockerEngine) Available() bool {
	if e.BinaryPath() == "" {
		return false
	}
	return e.CreateCommand(context.Background(), "version", "--format", "{{.Server.Version}}").Run() == nil
}

// Version returns the Docker server version.
func (e *DockerEngine) Version(ctx context.Context) (string, error) {
	out, err := e.RunCommandWithOutput(ctx, "version", "--format", "{{.Server.Version}}")
	if err != nil {
		return "", fmt.Errorf("get docker version: %w", err)
	}
	return strings.TrimSpace(out), nil
}
