// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wharf-cli/internal/bake"
)

var (
	renderFile string

	renderCmd = &cobra.Command{
		Use:   "render",
		Short: "Print the Dockerfile a bake of the recipe would use",
		Long: `Render the recipe's bootstrap sequence as a Dockerfile and print it.

Nothing is built; this is the exact input the bake hashes and feeds to
the container engine, useful for inspection and for pinning images in
external build systems.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd)
		},
	}
)

func init() {
	renderCmd.Flags().StringVarP(&renderFile, "file", "f", "", "path to the service recipe (default: servicefile.cue)")
}

func runRender(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return err
	}

	sf, err := loadRecipe(cfg, renderFile)
	if err != nil {
		return err
	}

	dockerfile, err := bake.RenderDockerfile(sf)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), dockerfile)
	return nil
}
