// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"wharf-cli/internal/container"
)

const (
	// StateBuilt indicates the image exists but no container has started.
	StateBuilt InstanceState = iota
	// StateStarting indicates the container is being created.
	StateStarting
	// StateRunning indicates the container process is running.
	StateRunning
	// StateStopped indicates the container exited (terminal state). The
	// exit code, zero or not, is in the run result.
	StateStopped
	// StateFailed indicates the container could not be started at all
	// (terminal state).
	StateFailed
)

var (
	// ErrAlreadyStarted is returned when Start is called more than once.
	ErrAlreadyStarted = errors.New("instance already started")

	// ErrNotStarted is returned when Wait or Stop is called before Start.
	ErrNotStarted = errors.New("instance not started")
)

type (
	// InstanceState represents the lifecycle state of a service instance.
	InstanceState int32

	// Options configures a service instance launch.
	Options struct {
		// Image is the baked, content-addressed image to run.
		Image container.ImageTag

		// Name is the container name. Empty derives one from the image tag.
		Name container.ContainerID

		// Port is the container's service port (the recipe port).
		Port uint16

		// HostPort is the host port to publish on. Zero publishes on Port.
		HostPort uint16

		// Env contains extra environment variables for the container.
		Env map[string]string

		// Remove makes the engine delete the container after exit.
		Remove bool

		// Stdout and Stderr receive the container's output streams.
		// Defaults are os.Stdout and os.Stderr.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Instance is one foreground run of a baked service image. A container
	// process exiting non-zero is a completed run, not a launch failure;
	// the instance still reaches StateStopped and the exit code is in the
	// result. An Instance is single-use: once stopped or failed, create a
	// new one.
	Instance struct {
		engine container.Engine
		opts   Options

		state atomic.Int32

		mu      sync.Mutex
		result  *container.RunResult
		lastErr error

		done chan struct{}
	}
)

// String returns a human-readable representation of the instance state.
func (s InstanceState) String() string {
	switch s {
	case StateBuilt:
		return "built"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// NewInstance creates an instance for the given image. The instance is not
// started; call Start (or Run) to launch the container.
func NewInstance(engine container.Engine, opts Options) (*Instance, error) {
	if opts.Image == "" {
		return nil, errors.New("launch: image must be set")
	}
	if opts.Port == 0 {
		return nil, errors.New("launch: port must be set")
	}
	if opts.HostPort == 0 {
		opts.HostPort = opts.Port
	}
	if opts.Name == "" {
		opts.Name = containerNameFor(opts.Image)
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	return &Instance{
		engine: engine,
		opts:   opts,
		done:   make(chan struct{}),
	}, nil
}

// State returns the current lifecycle state.
func (i *Instance) State() InstanceState {
	return InstanceState(i.state.Load())
}

// Result returns the run result, or nil while the container is still
// running.
func (i *Instance) Result() *container.RunResult {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.result
}

// Start launches the container in the background. It returns once the
// engine invocation is underway; use Wait for the exit code.
func (i *Instance) Start(ctx context.Context) error {
	if !i.state.CompareAndSwap(int32(StateBuilt), int32(StateStarting)) {
		return ErrAlreadyStarted
	}

	runOpts := container.RunOptions{
		Image:  i.opts.Image,
		Name:   i.opts.Name,
		Env:    i.opts.Env,
		Ports:  []container.PortMapping{{HostPort: i.opts.HostPort, ContainerPort: i.opts.Port}},
		Remove: i.opts.Remove,
		Stdout: i.opts.Stdout,
		Stderr: i.opts.Stderr,
	}
	if err := runOpts.Validate(); err != nil {
		i.state.Store(int32(StateFailed))
		i.setErr(err)
		close(i.done)
		return err
	}

	log.Info("launching service container",
		"image", i.opts.Image,
		"container", i.opts.Name,
		"port", fmt.Sprintf("%d->%d", i.opts.HostPort, i.opts.Port))

	i.state.Store(int32(StateRunning))
	go func() {
		defer close(i.done)

		res, err := i.engine.Run(ctx, runOpts)
		i.mu.Lock()
		i.result = res
		i.lastErr = err
		i.mu.Unlock()

		switch {
		case err != nil, res != nil && res.Error != nil:
			i.state.Store(int32(StateFailed))
		default:
			i.state.Store(int32(StateStopped))
			if res.ExitCode != 0 {
				log.Warn("service container exited non-zero", "container", i.opts.Name, "exit_code", res.ExitCode)
			}
		}
	}()

	return nil
}

// Wait blocks until the container exits or ctx is done, and returns the
// run result.
func (i *Instance) Wait(ctx context.Context) (*container.RunResult, error) {
	if i.State() == StateBuilt {
		return nil, ErrNotStarted
	}

	select {
	case <-i.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.lastErr != nil {
		return i.result, i.lastErr
	}
	if i.result != nil && i.result.Error != nil {
		return i.result, i.result.Error
	}
	return i.result, nil
}

// Run launches the container and blocks until it exits.
func (i *Instance) Run(ctx context.Context) (*container.RunResult, error) {
	if err := i.Start(ctx); err != nil {
		return nil, err
	}
	return i.Wait(ctx)
}

// Stop force-removes the container. The pending Run returns and the
// instance reaches a terminal state.
func (i *Instance) Stop(ctx context.Context) error {
	switch i.State() {
	case StateBuilt:
		return ErrNotStarted
	case StateStopped, StateFailed:
		return nil
	}

	log.Debug("stopping service container", "container", i.opts.Name)
	return i.engine.Remove(ctx, i.opts.Name, true)
}

func (i *Instance) setErr(err error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.lastErr = err
}

// containerNameFor derives a container name from an image tag:
// "wharf-accounts:3f9c1a2b04de" becomes "wharf-accounts-3f9c1a2b04de".
func containerNameFor(image container.ImageTag) container.ContainerID {
	name := strings.ReplaceAll(string(image), ":", "-")
	name = strings.ReplaceAll(name, "/", "-")
	return container.ContainerID(name)
}
