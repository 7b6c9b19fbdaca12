package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-dev/quarry/internal/secret"
)

func newAuthCmd(baseDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the token used for remote requests",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set-token <token>",
		Short: "Store a token that overrides the environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveBaseDir(*baseDir)
			if err != nil {
				return err
			}
			if err := secret.NewStore(dir).Save(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token stored")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear-token",
		Short: "Remove the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveBaseDir(*baseDir)
			if err != nil {
				return err
			}
			if err := secret.NewStore(dir).Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token cleared")
			return nil
		},
	})

	return cmd
}
