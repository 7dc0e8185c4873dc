// SPDX-License-Identifier: MPL-2.0

package bake

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"wharf-cli/pkg/servicefile"
)

// DockerfileName is the rendered Dockerfile's name inside a build context.
const DockerfileName = "Dockerfile"

// PrepareContext assembles a temporary build context for the recipe: the
// dependency manifest, a verbatim copy of the application package, and the
// rendered Dockerfile. The caller must invoke cleanup when the build is
// done. parent is the directory temp contexts are created under; empty
// means the system temp dir.
func PrepareContext(sf *servicefile.Servicefile, parent string) (dir string, cleanup func(), err error) {
	if parent == "" {
		parent = os.TempDir()
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", nil, fmt.Errorf("create build context parent: %w", err)
	}

	tmpDir, err := os.MkdirTemp(parent, "wharf-ctx-*")
	if err != nil {
		return "", nil, fmt.Errorf("create build context: %w", err)
	}
	cleanup = func() {
		_ = os.RemoveAll(tmpDir)
	}

	fail := func(err error) (string, func(), error) {
		cleanup()
		return "", nil, err
	}

	// Manifest, staged under its base name (the rendered COPY uses it).
	manifestDst := filepath.Join(tmpDir, filepath.Base(sf.Service.Manifest))
	if err := copyFile(sf.ManifestPath(), manifestDst); err != nil {
		return fail(fmt.Errorf("stage dependency manifest: %w", err))
	}

	// Application package: byte-identical copy, no transformation.
	appDst := filepath.Join(tmpDir, filepath.Base(sf.Service.AppDir))
	if err := copyDir(sf.AppDirPath(), appDst); err != nil {
		return fail(fmt.Errorf("stage application package: %w", err))
	}

	dockerfile, err := RenderDockerfile(sf)
	if err != nil {
		return fail(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, DockerfileName), []byte(dockerfile), 0o644); err != nil {
		return fail(fmt.Errorf("write dockerfile: %w", err))
	}

	return tmpDir, cleanup, nil
}

// copyFile copies src to dst, preserving the source mode.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}
	return nil
}

// copyDir recursively copies the directory tree at src to dst.
func copyDir(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}

	if err := os.MkdirAll(dst, info.Mode()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}
