package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-dev/quarry/internal/display"
	apperrors "github.com/quarry-dev/quarry/internal/errors"
)

func newPreviewCmd(baseDir *string) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "preview <template>",
		Short: "Render a template's markdown in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*baseDir)
			if err != nil {
				return err
			}

			tmpl, result, err := app.catalog.Find(cmd.Context(), args[0])
			if err != nil {
				if result.Err != nil {
					return reportFailure(result.Err)
				}
				return err
			}

			content, err := app.catalog.Download(cmd.Context(), tmpl.DownloadRef)
			if err != nil {
				return reportFailure(apperrors.GetAppError(err))
			}

			fmt.Fprint(cmd.OutOrStdout(), display.RenderMarkdown(string(content), width))
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 0, "wrap width for rendered markdown (0 uses the default)")
	return cmd
}
