// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"wharf-cli/pkg/servicefile"
)

var (
	initName string

	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a starter service recipe in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd)
		},
	}
)

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "service name (default: the current directory's name)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	name := initName
	if name == "" {
		name = filepath.Base(cwd)
	}
	if err := servicefile.ServiceName(name).Validate(); err != nil {
		return fmt.Errorf("cannot derive a service name from %q, pass one with --name: %w", name, err)
	}

	path := filepath.Join(cwd, servicefile.DefaultFileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	content := fmt.Sprintf(`service: {
	name: %q

	// Everything below is the default; uncomment to override.
	// base_image: "python:3.9-slim"
	// manifest:   "requirements.txt"
	// app_dir:    "service"
	// entrypoint: "service:app"
	// port:       8080
	// log_level:  "info"
	// identity: {
	// 	uid:      1000
	// 	username: "appuser"
	// }
}
`, name)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write recipe: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", SuccessStyle.Render("✓"), path)
	fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("Bake it with: wharf bake"))
	return nil
}
