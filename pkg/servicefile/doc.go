// SPDX-License-Identifier: MPL-2.0

// Package servicefile defines wharf's declarative service recipe format.
//
// A servicefile describes everything needed to bake a network service into
// a container image: the base image, the dependency manifest, the
// application package directory, the runtime identity, the listening port,
// and the WSGI entry point. Recipes are written in CUE and validated
// against the embedded schema before any build work starts, so malformed
// recipes fail before a container engine is ever invoked.
package servicefile
