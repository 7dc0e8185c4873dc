// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// PodmanEngine implements Engine using the Podman CLI.
type PodmanEngine struct {
	*BaseCLIEngine
}

// NewPodmanEngine creates a new Podman engine.
func NewPodmanEngine(opts ...BaseCLIEngineOption) *PodmanEngine {
	path, _ := exec.LookPath("podman")
	allOpts := append([]BaseCLIEngineOption{WithName(string(EngineTypePodman))}, opts...)
	return &PodmanEngine{
		BaseCLIEngine: NewBaseCLIEngine(path, allOpts...),
	}
}

// Name returns the engine name.
func (e *PodmanEngine) Name() string {
	return string(EngineTypePodman)
}

// Available checks whether Podman can be used.
func (e *PodmanEngine) Available() bool {
	if e.BinaryPath() == "" {
		return false
	}
	return e.CreateCommand(context.Background(), "version", "--format", "{{.Version}}").Run() == nil
}

// Version returns the Podman version.
func (e *PodmanEngine) Version(ctx context.Context) (string, error) {
	out, err := e.RunCommandWithOutput(ctx, "version", "--format", "{{.Version}}")
	if err != nil {
		return "", fmt.Errorf("get podman version: %w", err)
	}
	return strings.TrimSpace(out), nil
}
