// SPDX-License-Identifier: MPL-2.0

package bake

import (
	"fmt"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"wharf-cli/pkg/servicefile"
)

// WorkDir is the application directory inside the image. The identity
// stage hands its ownership to the runtime user.
const WorkDir = "/app"

// RenderDockerfile renders the recipe's bootstrap sequence as a Dockerfile.
// Stage order is the contract: dependencies install before the application
// is staged (cache locality), the identity switch happens before the
// launcher declaration (nothing after it runs privileged).
func RenderDockerfile(sf *servicefile.Servicefile) (string, error) {
	if err := sf.Validate(); err != nil {
		return "", fmt.Errorf("render dockerfile: %w", err)
	}

	s := sf.Service
	var b strings.Builder

	// Base layer.
	fmt.Fprintf(&b, "FROM %s\n\n", s.BaseImage)
	fmt.Fprintf(&b, "WORKDIR %s\n\n", WorkDir)

	// Dependency installer: manifest only, so this layer is reused until
	// the manifest itself changes.
	manifestName := filepath.Base(s.Manifest)
	fmt.Fprintf(&b, "COPY %s ./\n", manifestName)
	fmt.Fprintf(&b, "RUN pip install --no-cache-dir -r %s\n\n", shQuote(manifestName))

	// Artifact stager: byte-identical copy of the application package.
	appName := filepath.Base(s.AppDir)
	fmt.Fprintf(&b, "COPY %s/ ./%s/\n\n", appName, appName)

	// Identity provisioner: pinned UID, ownership transfer, privilege drop.
	user := shQuote(string(s.Identity.Username))
	fmt.Fprintf(&b, "RUN useradd --uid %d %s && chown -R %s %s\n", s.Identity.UID, user, user, WorkDir)
	fmt.Fprintf(&b, "USER %s\n\n", s.Identity.Username)

	// Service launcher: the exposed port and the bind port are the same
	// recipe value, so they cannot drift.
	fmt.Fprintf(&b, "EXPOSE %d\n", s.Port)
	fmt.Fprintf(&b, "CMD [%s]\n", strings.Join(quoteJSON(LaunchCommand(&s)), ", "))

	return b.String(), nil
}

// LaunchCommand returns the declared entry-point command: a pre-forking
// HTTP server bound to all interfaces on the recipe port, importing the
// recipe's WSGI callable. Worker count and timeouts are deliberately not
// set; those are the server's own defaults.
func LaunchCommand(s *servicefile.Service) []string {
	return []string{
		"gunicorn",
		fmt.Sprintf("--bind=0.0.0.0:%d", s.Port),
		fmt.Sprintf("--log-level=%s", s.LogLevel),
		string(s.Entrypoint),
	}
}

// shQuote quotes a value for use in a shell-form RUN instruction.
func shQuote(s string) string {
	quoted, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		// Quote only fails on non-printable input, which the recipe
		// validators already reject. Fall back to the raw value.
		return s
	}
	return quoted
}

func quoteJSON(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = fmt.Sprintf("%q", a)
	}
	return out
}
