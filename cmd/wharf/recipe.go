// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"os"
	"path/filepath"

	"wharf-cli/internal/config"
	"wharf-cli/internal/container"
	"wharf-cli/internal/issue"
	"wharf-cli/pkg/servicefile"
)

// resolveRecipePath picks the recipe file: the --file flag when set,
// otherwise the configured filename in the working directory.
func resolveRecipePath(cfg *config.Config, fileFlag string) (string, error) {
	if fileFlag != "" {
		return fileFlag, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	path := filepath.Join(cwd, cfg.Servicefile)
	if _, err := os.Stat(path); err != nil {
		return "", issue.NewErrorContext().
			WithOperation("locate service recipe").
			WithResource(path).
			WithSuggestion("Create a " + cfg.Servicefile + " in the current directory").
			WithSuggestion("Point at a recipe explicitly with --file").
			WithSuggestion("See 'wharf docs recipe' for the recipe format").
			Wrap(err).
			BuildError()
	}
	return path, nil
}

// loadRecipe resolves and loads the service recipe.
func loadRecipe(cfg *config.Config, fileFlag string) (*servicefile.Servicefile, error) {
	path, err := resolveRecipePath(cfg, fileFlag)
	if err != nil {
		return nil, err
	}
	return servicefile.Load(path)
}

// selectEngine picks the container engine per configuration.
func selectEngine(_ context.Context, cfg *config.Config) (container.Engine, error) {
	switch cfg.ContainerEngine {
	case config.ContainerEngineDocker:
		return container.NewEngine(container.EngineTypeDocker)
	case config.ContainerEnginePodman:
		return container.NewEngine(container.EngineTypePodman)
	default:
		return container.AutoDetectEngine()
	}
}
