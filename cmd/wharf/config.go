// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"wharf-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage wharf configuration",
	Long: `Manage wharf configuration.

Configuration is stored in:
  - Linux: ~/.config/wharf/config.cue
  - macOS: ~/Library/Application Support/wharf/config.cue
  - Windows: %APPDATA%\wharf\config.cue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	})
}

func showConfig(cmd *cobra.Command) error {
	cfg, resolvedPath, err := config.Resolve(cmd.Context(), config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	if resolvedPath != "" {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), resolvedPath)
	} else {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("container_engine"), valueStyle.Render(string(cfg.ContainerEngine)))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("servicefile"), valueStyle.Render(cfg.Servicefile))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(out, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(out, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("bake"))
	fmt.Fprintf(out, "  no_cache: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Bake.NoCache)))
	if cfg.Bake.ContextParent != "" {
		fmt.Fprintf(out, "  context_parent: %s\n", valueStyle.Render(cfg.Bake.ContextParent))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("launch"))
	fmt.Fprintf(out, "  auto_remove: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Launch.AutoRemove)))
	if cfg.Launch.HostPort != 0 {
		fmt.Fprintf(out, "  host_port: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Launch.HostPort)))
	}

	return nil
}

func initConfig(cmd *cobra.Command) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Created default configuration at %s\n",
		SuccessStyle.Render("✓"),
		filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}

func showConfigPath(cmd *cobra.Command) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	cfgPath := filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
	fmt.Fprintf(out, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(out, "Config file: %s\n", cfgPath)
	if _, err := os.Stat(cfgPath); err != nil {
		fmt.Fprintln(out, SubtitleStyle.Render("(file does not exist yet; run 'wharf config init')"))
	}
	return nil
}
