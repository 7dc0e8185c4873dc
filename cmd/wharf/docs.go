// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed docs/recipe.md
var recipeDoc string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Reference documentation",
	Long:  "Rendered reference documentation for wharf file formats and workflows.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	docsCmd.AddCommand(&cobra.Command{
		Use:   "recipe",
		Short: "Show the service recipe format reference",
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderDoc(cmd, recipeDoc)
		},
	})
}

// renderDoc renders markdown for the terminal, falling back to the raw
// text when the renderer cannot be built (e.g. no TTY detection).
func renderDoc(cmd *cobra.Command, content string) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}
