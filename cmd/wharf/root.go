// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"wharf-cli/internal/config"
	"wharf-cli/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug-level logging.
	verbose bool
	// cfgFile allows specifying a custom config file.
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "wharf",
		Short: "Bake service recipes into container images and launch them",
		Long: TitleStyle.Render("wharf") + SubtitleStyle.Render(" - bake service recipes into container images") + `

wharf reads a service recipe (a CUE file describing a WSGI service:
its dependency manifest, application package, runtime identity, and
listen port) and bakes it into a content-addressed container image.
Unchanged inputs always produce the same image, so repeat bakes are
cache hits.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Write a servicefile.cue next to your application package
  2. Bake the image with: wharf bake
  3. Launch the service with: wharf up

` + SubtitleStyle.Render("Examples:") + `
  wharf bake                Bake the recipe in the current directory
  wharf up                  Bake (if needed) and run the service
  wharf render              Print the Dockerfile a bake would use
  wharf config show         Show current configuration
  wharf docs recipe         Show the recipe format reference`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/wharf/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(bakeCmd)
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(docsCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling.
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig applies configuration that affects every command.
func initRootConfig() {
	cfg, err := loadConfig(context.Background())
	if err != nil {
		// Config problems must not hide the command output; warn and run
		// with defaults.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		cfg = config.DefaultConfig()
	}

	// Apply verbose from config if not set via flag
	if !verbose {
		verbose = cfg.UI.Verbose
	}
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// loadConfig loads the configuration, honoring the --config flag.
func loadConfig(ctx context.Context) (*config.Config, error) {
	return config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// GetVerbose returns the verbose flag value.
func GetVerbose() bool {
	return verbose
}
