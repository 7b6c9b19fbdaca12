package cli

import "github.com/spf13/cobra"

func newRefreshCmd(baseDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refetch the catalogue from the source, ignoring the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*baseDir)
			if err != nil {
				return err
			}
			return printCatalogue(cmd, app.catalog.Refresh(cmd.Context(), true))
		},
	}
}
