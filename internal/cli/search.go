package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSearchCmd(baseDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search templates by name, path, and description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*baseDir)
			if err != nil {
				return err
			}

			result, matches := app.catalog.Search(cmd.Context(), args[0])
			if result.Err != nil {
				return reportFailure(result.Err)
			}
			if result.NeedsSetup {
				return fmt.Errorf("no template source configured")
			}

			out := cmd.OutOrStdout()
			if len(matches) == 0 {
				fmt.Fprintf(out, "No templates matching %q\n", args[0])
				return nil
			}
			for _, tmpl := range matches {
				if tmpl.Description != "" {
					fmt.Fprintf(out, "%s\t%s\n", tmpl.Path, tmpl.Description)
				} else {
					fmt.Fprintln(out, tmpl.Path)
				}
			}
			return nil
		},
	}
	return cmd
}
