// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wharf-cli/internal/bake"
)

var (
	bakeFile    string
	bakeNoCache bool

	bakeCmd = &cobra.Command{
		Use:   "bake",
		Short: "Bake the service recipe into a container image",
		Long: `Bake the service recipe into a content-addressed container image.

The bake runs the recipe's bootstrap sequence: install the dependency
manifest, stage the application package, provision the non-root runtime
identity, and declare the service launcher. The resulting image tag is
derived from the recipe inputs, so an unchanged recipe is a cache hit
and no build runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBake(cmd)
		},
	}
)

func init() {
	bakeCmd.Flags().StringVarP(&bakeFile, "file", "f", "", "path to the service recipe (default: servicefile.cue)")
	bakeCmd.Flags().BoolVar(&bakeNoCache, "no-cache", false, "rebuild even when the content-addressed image exists")
}

func runBake(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	sf, err := loadRecipe(cfg, bakeFile)
	if err != nil {
		return err
	}

	engine, err := selectEngine(ctx, cfg)
	if err != nil {
		return err
	}

	baker := bake.NewBaker(engine, bake.Options{
		NoCache:       bakeNoCache || cfg.Bake.NoCache,
		Output:        cmd.ErrOrStderr(),
		ContextParent: cfg.Bake.ContextParent,
	})
	res, err := baker.Bake(ctx, sf)
	if err != nil {
		return err
	}

	if res.CacheHit {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
			SuccessStyle.Render("✓"),
			CmdStyle.Render(string(res.ImageTag)),
			SubtitleStyle.Render("(cache hit)"))
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Baked %s\n",
		SuccessStyle.Render("✓"),
		CmdStyle.Render(string(res.ImageTag)))
	return nil
}
