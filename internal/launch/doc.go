// SPDX-License-Identifier: MPL-2.0

// Package launch runs baked service images as foreground containers and
// tracks their lifecycle. An Instance moves through built, starting,
// running, and then stopped or failed; transitions are one-way and an
// Instance is single-use.
package launch
