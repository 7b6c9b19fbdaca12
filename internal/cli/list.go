package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-dev/quarry/internal/catalog"
	"github.com/quarry-dev/quarry/internal/display"
	"github.com/quarry-dev/quarry/internal/models"
)

func newListCmd(baseDir *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the template catalogue as a tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*baseDir)
			if err != nil {
				return err
			}

			result := app.catalog.Refresh(cmd.Context(), force)
			return printCatalogue(cmd, result)
		},
	}

	cmd.Flags().BoolVarP(&force, "refresh", "r", false, "ignore the cache and refetch from the source")
	return cmd
}

func printCatalogue(cmd *cobra.Command, result catalog.Result) error {
	if result.Err != nil {
		return reportFailure(result.Err)
	}
	if result.NeedsSetup {
		fmt.Fprintln(cmd.OutOrStdout(), "No template source configured.")
		fmt.Fprintln(cmd.OutOrStdout(), "Run 'quarry config set-remote <owner>/<repo>' or 'quarry config set-local <dir>' to get started.")
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, display.RenderTree(result.Tree))
	fmt.Fprintln(out, display.Summarize(result.SourceLabel, string(result.Freshness), models.CountLeaves(result.Tree)))
	return nil
}
