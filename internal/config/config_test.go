// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	// Empty config dir: every value comes from DefaultConfig.
	cfg, path, err := Resolve(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want empty (defaults)", path)
	}

	want := DefaultConfig()
	if cfg.ContainerEngine != want.ContainerEngine {
		t.Errorf("ContainerEngine = %q, want %q", cfg.ContainerEngine, want.ContainerEngine)
	}
	if cfg.Servicefile != want.Servicefile {
		t.Errorf("Servicefile = %q, want %q", cfg.Servicefile, want.Servicefile)
	}
	if !cfg.Launch.AutoRemove {
		t.Error("Launch.AutoRemove default should be true")
	}
}

func TestLoadFromConfigDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfigFile(t, dir, `
container_engine: "podman"
servicefile: "myservice.cue"

ui: {
	verbose: true
}

launch: {
	auto_remove: false
	host_port: 9090
}
`)

	cfg, path, err := Resolve(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if path == "" {
		t.Error("resolved path should name the loaded file")
	}
	if cfg.ContainerEngine != ContainerEnginePodman {
		t.Errorf("ContainerEngine = %q, want podman", cfg.ContainerEngine)
	}
	if cfg.Servicefile != "myservice.cue" {
		t.Errorf("Servicefile = %q", cfg.Servicefile)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose should be true")
	}
	if cfg.Launch.AutoRemove {
		t.Error("Launch.AutoRemove should be false")
	}
	if cfg.Launch.HostPort != 9090 {
		t.Errorf("Launch.HostPort = %d, want 9090", cfg.Launch.HostPort)
	}

	// Unset fields keep their defaults.
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("UI.ColorScheme = %q, want auto", cfg.UI.ColorScheme)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.cue")
	if err := os.WriteFile(path, []byte(`container_engine: "docker"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ContainerEngine != ContainerEngineDocker {
		t.Errorf("ContainerEngine = %q, want docker", cfg.ContainerEngine)
	}
}

func TestLoadExplicitFileMissing(t *testing.T) {
	t.Parallel()

	_, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "absent.cue"),
	})
	if err == nil {
		t.Fatal("Load() with missing explicit file should fail")
	}
}

func TestLoadRejectsSchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"unknown engine", `container_engine: "lxc"`},
		{"empty servicefile", `servicefile: ""`},
		{"bad color scheme", `ui: {color_scheme: "neon"}`},
		{"port out of range", `launch: {host_port: 70000}`},
		{"wrong type", `launch: {auto_remove: "yes"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfigFile(t, dir, tt.content)

			if _, _, err := Resolve(context.Background(), LoadOptions{ConfigDirPath: dir}); err == nil {
				t.Errorf("Resolve() accepted invalid config: %s", tt.content)
			}
		})
	}
}

func TestLoadInvalidCUESyntax(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfigFile(t, dir, `container_engine: "docker`)

	if _, _, err := Resolve(context.Background(), LoadOptions{ConfigDirPath: dir}); err == nil {
		t.Fatal("Resolve() accepted a config with broken CUE syntax")
	}
}

func TestLoadCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := Resolve(ctx, LoadOptions{ConfigDirPath: t.TempDir()}); err == nil {
		t.Fatal("Resolve() with canceled context should fail")
	}
}

func TestGenerateCUERoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.ContainerEngine = ContainerEnginePodman
	cfg.UI.Verbose = true
	cfg.Launch.HostPort = 8081

	dir := t.TempDir()
	writeConfigFile(t, dir, GenerateCUE(cfg))

	got, _, err := Resolve(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Resolve() of generated config error = %v", err)
	}
	if got.ContainerEngine != cfg.ContainerEngine {
		t.Errorf("ContainerEngine = %q, want %q", got.ContainerEngine, cfg.ContainerEngine)
	}
	if got.UI.Verbose != cfg.UI.Verbose {
		t.Errorf("UI.Verbose = %v, want %v", got.UI.Verbose, cfg.UI.Verbose)
	}
	if got.Launch.HostPort != cfg.Launch.HostPort {
		t.Errorf("Launch.HostPort = %d, want %d", got.Launch.HostPort, cfg.Launch.HostPort)
	}
}

func TestGenerateCUEContainsHeader(t *testing.T) {
	t.Parallel()

	out := GenerateCUE(DefaultConfig())
	if !strings.HasPrefix(out, "// Wharf Configuration File") {
		t.Errorf("GenerateCUE() missing header:\n%s", out)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	// Idempotent: an existing file is left alone.
	if err := os.WriteFile(path, []byte(`container_engine: "podman"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("second CreateDefaultConfig() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "podman") {
		t.Error("CreateDefaultConfig() overwrote an existing config file")
	}
}
