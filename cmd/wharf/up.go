// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wharf-cli/internal/bake"
	"wharf-cli/internal/container"
	"wharf-cli/internal/launch"
	"wharf-cli/pkg/types"
)

var (
	upFile     string
	upNoCache  bool
	upHostPort uint16
	upName     string

	upCmd = &cobra.Command{
		Use:   "up",
		Short: "Bake the recipe and run the service in the foreground",
		Long: `Bake the service recipe (a cache hit when nothing changed) and run
the resulting image as a foreground container.

The recipe port is published on the host; --port overrides the host
side of the mapping. The container's exit code becomes wharf's exit
code, so orchestration tooling can react to service failures.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUp(cmd)
		},
	}
)

func init() {
	upCmd.Flags().StringVarP(&upFile, "file", "f", "", "path to the service recipe (default: servicefile.cue)")
	upCmd.Flags().BoolVar(&upNoCache, "no-cache", false, "rebuild even when the content-addressed image exists")
	upCmd.Flags().Uint16VarP(&upHostPort, "port", "p", 0, "host port to publish the service on (default: the recipe port)")
	upCmd.Flags().StringVar(&upName, "name", "", "container name (default: derived from the image tag)")
}

func runUp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	sf, err := loadRecipe(cfg, upFile)
	if err != nil {
		return err
	}

	engine, err := selectEngine(ctx, cfg)
	if err != nil {
		return err
	}

	baker := bake.NewBaker(engine, bake.Options{
		NoCache:       upNoCache || cfg.Bake.NoCache,
		Output:        cmd.ErrOrStderr(),
		ContextParent: cfg.Bake.ContextParent,
	})
	baked, err := baker.Bake(ctx, sf)
	if err != nil {
		return err
	}

	hostPort := upHostPort
	if hostPort == 0 {
		hostPort = cfg.Launch.HostPort
	}

	inst, err := launch.NewInstance(engine, launch.Options{
		Image:    baked.ImageTag,
		Name:     container.ContainerID(upName),
		Port:     uint16(sf.Service.Port),
		HostPort: hostPort,
		Remove:   cfg.Launch.AutoRemove,
		Stdout:   cmd.OutOrStdout(),
		Stderr:   cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	res, err := inst.Run(ctx)
	if err != nil {
		return err
	}
	if code := types.ExitCode(res.ExitCode); !code.IsSuccess() {
		return &ExitError{
			Code: code,
			Err:  fmt.Errorf("service %s exited with status %d", sf.Service.Name, res.ExitCode),
		}
	}
	return nil
}
