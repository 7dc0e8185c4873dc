// SPDX-License-Identifier: MPL-2.0

// Package container provides a unified abstraction over container engines
// (Docker/Podman).
//
// The Engine interface defines the operations wharf needs: Build, Run,
// Remove, ImageExists, RemoveImage, and Version. DockerEngine and
// PodmanEngine both embed BaseCLIEngine, which holds the shared CLI
// argument construction and command execution. Engine selection uses
// NewEngine(EngineType) with automatic fallback when the preferred engine
// is unavailable, or AutoDetectEngine() for preference-less detection.
package container
