// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wharf-cli/internal/config"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(originalWd) })
}

func TestResolveRecipePathFlagWins(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	got, err := resolveRecipePath(cfg, "/somewhere/else/service.cue")
	if err != nil {
		t.Fatalf("resolveRecipePath() error = %v", err)
	}
	if got != "/somewhere/else/service.cue" {
		t.Errorf("resolveRecipePath() = %q", got)
	}
}

func TestResolveRecipePathDefaultName(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfg := config.DefaultConfig()
	path := filepath.Join(dir, cfg.Servicefile)
	if err := os.WriteFile(path, []byte(`service: {name: "demo"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := resolveRecipePath(cfg, "")
	if err != nil {
		t.Fatalf("resolveRecipePath() error = %v", err)
	}
	if filepath.Base(got) != cfg.Servicefile {
		t.Errorf("resolveRecipePath() = %q", got)
	}
}

func TestResolveRecipePathMissing(t *testing.T) {
	chdir(t, t.TempDir())

	if _, err := resolveRecipePath(config.DefaultConfig(), ""); err == nil {
		t.Fatal("resolveRecipePath() should fail when no recipe exists")
	}
}

func TestLoadRecipe(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfg := config.DefaultConfig()
	recipe := `service: {
	name: "accounts"
	port: 9000
}`
	if err := os.WriteFile(filepath.Join(dir, cfg.Servicefile), []byte(recipe), 0o644); err != nil {
		t.Fatal(err)
	}

	sf, err := loadRecipe(cfg, "")
	if err != nil {
		t.Fatalf("loadRecipe() error = %v", err)
	}
	if sf.Service.Name != "accounts" {
		t.Errorf("Name = %q", sf.Service.Name)
	}
	if sf.Service.Port != 9000 {
		t.Errorf("Port = %d", sf.Service.Port)
	}
	if sf.Dir != dir {
		t.Errorf("Dir = %q, want %q", sf.Dir, dir)
	}
}

func TestInitCreatesRecipe(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	initName = "demo-service"
	t.Cleanup(func() { initName = "" })

	if err := runInit(initCmd); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "servicefile.cue"))
	if err != nil {
		t.Fatalf("recipe not created: %v", err)
	}
	if !strings.Contains(string(data), `name: "demo-service"`) {
		t.Errorf("recipe missing service name:\n%s", data)
	}

	// A second init must not overwrite.
	if err := runInit(initCmd); err == nil {
		t.Fatal("runInit() should refuse to overwrite an existing recipe")
	}
}

func TestInitRejectsInvalidName(t *testing.T) {
	chdir(t, t.TempDir())

	initName = "Not_A_Valid_Name"
	t.Cleanup(func() { initName = "" })

	if err := runInit(initCmd); err == nil {
		t.Fatal("runInit() should reject an invalid service name")
	}
}
