// SPDX-License-Identifier: MPL-2.0

// Package bake turns a service recipe into a container image.
//
// A bake is a strictly ordered sequence of stages, each one a hard
// dependency of the next: install the dependency manifest, stage the
// application package, provision the non-root runtime identity, and
// declare the service launcher. The stages are rendered into a Dockerfile
// so each becomes an immutable, cacheable build layer; the manifest is
// rendered before the application copy so dependency layers survive
// app-only changes.
//
// Images are content-addressed: the tag embeds a hash of the recipe, the
// manifest, and the application tree. An unchanged bake is a cache hit and
// never invokes the engine. Any stage failure aborts the bake with no
// partial image.
package bake
