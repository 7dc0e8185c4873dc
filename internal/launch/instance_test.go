// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"wharf-cli/internal/container"
)

// fakeEngine scripts container runs for lifecycle tests. release gates the
// fake container's "exit" so tests can observe the running state.
type fakeEngine struct {
	exitCode int
	runErr   error
	release  chan struct{}

	runOpts    []container.RunOptions
	removed    []container.ContainerID
	removeErrs []error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{release: make(chan struct{})}
}

func (f *fakeEngine) Name() string                               { return "fake" }
func (f *fakeEngine) Available() bool                            { return true }
func (f *fakeEngine) Version(context.Context) (string, error)    { return "0.0.0-test", nil }
func (f *fakeEngine) Build(context.Context, container.BuildOptions) error {
	return nil
}

func (f *fakeEngine) Run(ctx context.Context, opts container.RunOptions) (*container.RunResult, error) {
	f.runOpts = append(f.runOpts, opts)
	select {
	case <-f.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if f.runErr != nil {
		return nil, f.runErr
	}
	return &container.RunResult{ContainerID: opts.Name, ExitCode: f.exitCode}, nil
}

func (f *fakeEngine) Remove(_ context.Context, id container.ContainerID, _ bool) error {
	f.removed = append(f.removed, id)
	close(f.release)
	return nil
}

func (f *fakeEngine) ImageExists(context.Context, container.ImageTag) (bool, error) {
	return true, nil
}

func (f *fakeEngine) RemoveImage(context.Context, container.ImageTag, bool) error {
	return nil
}

func testOptions() Options {
	return Options{
		Image:  "wharf-accounts:3f9c1a2b04de",
		Port:   8080,
		Stdout: io.Discard,
		Stderr: io.Discard,
	}
}

func TestNewInstanceDefaults(t *testing.T) {
	t.Parallel()

	inst, err := NewInstance(newFakeEngine(), testOptions())
	if err != nil {
		t.Fatalf("NewInstance() error = %v", err)
	}
	if got := inst.State(); got != StateBuilt {
		t.Errorf("new instance state = %v, want built", got)
	}
	if inst.opts.HostPort != 8080 {
		t.Errorf("default host port = %d, want the container port", inst.opts.HostPort)
	}
	if inst.opts.Name != "wharf-accounts-3f9c1a2b04de" {
		t.Errorf("derived container name = %q", inst.opts.Name)
	}
}

func TestNewInstanceRejectsMissingFields(t *testing.T) {
	t.Parallel()

	if _, err := NewInstance(newFakeEngine(), Options{Port: 8080}); err == nil {
		t.Error("NewInstance() without image should fail")
	}
	if _, err := NewInstance(newFakeEngine(), Options{Image: "img:tag"}); err == nil {
		t.Error("NewInstance() without port should fail")
	}
}

func TestInstanceLifecycle(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	inst, err := NewInstance(engine, testOptions())
	if err != nil {
		t.Fatalf("NewInstance() error = %v", err)
	}

	if err := inst.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := inst.State(); got != StateRunning {
		t.Errorf("state after Start() = %v, want running", got)
	}

	close(engine.release)

	res, err := inst.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if got := inst.State(); got != StateStopped {
		t.Errorf("state after exit = %v, want stopped", got)
	}
}

func TestInstancePublishesRecipePort(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	close(engine.release)

	opts := testOptions()
	opts.Port = 9191
	inst, err := NewInstance(engine, opts)
	if err != nil {
		t.Fatalf("NewInstance() error = %v", err)
	}
	if _, err := inst.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(engine.runOpts) != 1 {
		t.Fatalf("engine.Run called %d times, want 1", len(engine.runOpts))
	}
	ports := engine.runOpts[0].Ports
	if len(ports) != 1 {
		t.Fatalf("published %d port mappings, want 1", len(ports))
	}
	if ports[0].HostPort != 9191 || ports[0].ContainerPort != 9191 {
		t.Errorf("port mapping = %v, want 9191:9191", ports[0])
	}
}

func TestInstanceNonZeroExitIsStopped(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	engine.exitCode = 3
	close(engine.release)

	inst, err := NewInstance(engine, testOptions())
	if err != nil {
		t.Fatalf("NewInstance() error = %v", err)
	}

	res, err := inst.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v (non-zero exit must not be an error)", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if got := inst.State(); got != StateStopped {
		t.Errorf("state = %v, want stopped", got)
	}
}

func TestInstanceEngineFailure(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	engine.runErr = errors.New("engine exploded")
	close(engine.release)

	inst, err := NewInstance(engine, testOptions())
	if err != nil {
		t.Fatalf("NewInstance() error = %v", err)
	}

	if _, err := inst.Run(context.Background()); err == nil {
		t.Fatal("Run() with engine failure should return an error")
	}
	if got := inst.State(); got != StateFailed {
		t.Errorf("state = %v, want failed", got)
	}
}

func TestInstanceDoubleStart(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	inst, err := NewInstance(engine, testOptions())
	if err != nil {
		t.Fatalf("NewInstance() error = %v", err)
	}

	if err := inst.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := inst.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}

	close(engine.release)
	if _, err := inst.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}

func TestInstanceWaitBeforeStart(t *testing.T) {
	t.Parallel()

	inst, err := NewInstance(newFakeEngine(), testOptions())
	if err != nil {
		t.Fatalf("NewInstance() error = %v", err)
	}
	if _, err := inst.Wait(context.Background()); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Wait() before Start() error = %v, want ErrNotStarted", err)
	}
	if err := inst.Stop(context.Background()); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Stop() before Start() error = %v, want ErrNotStarted", err)
	}
}

func TestInstanceStop(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	inst, err := NewInstance(engine, testOptions())
	if err != nil {
		t.Fatalf("NewInstance() error = %v", err)
	}
	if err := inst.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := inst.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if len(engine.removed) != 1 || engine.removed[0] != inst.opts.Name {
		t.Errorf("Remove() calls = %v, want [%s]", engine.removed, inst.opts.Name)
	}

	if _, err := inst.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() after Stop() error = %v", err)
	}
	if got := inst.State(); got != StateStopped {
		t.Errorf("state after Stop() = %v, want stopped", got)
	}
}

func TestInstanceWaitContextCancelled(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	inst, err := NewInstance(engine, testOptions())
	if err != nil {
		t.Fatalf("NewInstance() error = %v", err)
	}
	if err := inst.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := inst.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() with expired context error = %v, want deadline exceeded", err)
	}

	close(engine.release)
}

func TestInstanceStateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state InstanceState
		want  string
	}{
		{StateBuilt, "built"},
		{StateStarting, "starting"},
		{StateRunning, "running"},
		{StateStopped, "stopped"},
		{StateFailed, "failed"},
		{InstanceState(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("InstanceState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
