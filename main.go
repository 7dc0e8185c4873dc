// SPDX-License-Identifier: MPL-2.0

// wharf bakes declarative service recipes into container images and
// launches the resulting containers.
package main

import cmd "wharf-cli/cmd/wharf"

func main() {
	cmd.Execute()
}
