package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-dev/quarry/internal/installer"
)

func newInstallCmd(baseDir *string) *cobra.Command {
	var (
		targetDir string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "install <template>",
		Short: "Copy a template into the target directory",
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

			inst := installer.New(app.catalog.Download)
			written, err := inst.Install(cmd.Context(), tmpl, targetDir, force)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Installed %s\n", written)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetDir, "target", "t", ".", "directory to install the template into")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
