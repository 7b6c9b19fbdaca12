package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInvalidateCmd(baseDir *string) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "invalidate [key]",
		Short: "Drop cached catalogue entries",
		Long: `Drop cached catalogue entries so the next listing refetches from the
source. With no arguments the entry for the active remote repository is
dropped; pass a cache key (owner/repo or owner/repo/path) to target a
specific entry, or --all to clear everything.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*baseDir)
			if err != nil {
				return err
			}

			if all {
				if err := app.catalog.InvalidateAll(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
				return nil
			}

			key := ""
			if len(args) == 1 {
				key = args[0]
			}
			if err := app.catalog.Invalidate(key); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache entry invalidated")
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "drop every cached entry")
	return cmd
}
