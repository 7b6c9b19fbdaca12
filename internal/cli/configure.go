package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quarry-dev/quarry/internal/models"
)

func newConfigCmd(baseDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the template source configuration",
	}

	cmd.AddCommand(newConfigSetRemoteCmd(baseDir))
	cmd.AddCommand(newConfigSetLocalCmd(baseDir))
	cmd.AddCommand(newConfigShowCmd(baseDir))
	cmd.AddCommand(newConfigClearCmd(baseDir))
	return cmd
}

func newConfigSetRemoteCmd(baseDir *string) *cobra.Command {
	var (
		path   string
		branch string
	)

	cmd := &cobra.Command{
		Use:   "set-remote <owner>/<repo>",
		Short: "Use a GitHub repository as the template source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, ok := strings.Cut(args[0], "/")
			if !ok || owner == "" || name == "" {
				return fmt.Errorf("expected <owner>/<repo>, got %q", args[0])
			}

			app, err := newApp(*baseDir)
			if err != nil {
				return err
			}

			repo := models.RepositoryConfig{Owner: owner, Repo: name, Path: path, Branch: branch}
			if err := app.config.SetRemote(repo); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Template source set to %s@%s\n", repo.Identity(), repo.BranchOrDefault())
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "subdirectory within the repository to list")
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "branch to fetch from (defaults to main)")
	return cmd
}

func newConfigSetLocalCmd(baseDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set-local <dir>",
		Short: "Use a local directory as the template source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*baseDir)
			if err != nil {
				return err
			}

			if err := app.config.SetLocal(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Template source set to local directory %s\n", app.config.LocalRoot())
			return nil
		},
	}
}

func newConfigShowCmd(baseDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active template source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*baseDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			source := app.config.Resolve()
			switch source.Kind {
			case models.SourceRemote:
				fmt.Fprintf(out, "remote: %s@%s\n", source.Remote.Identity(), source.Remote.BranchOrDefault())
				if source.Remote.Path != "" {
					fmt.Fprintf(out, "path: %s\n", source.Remote.Path)
				}
			case models.SourceLocal:
				fmt.Fprintf(out, "local: %s\n", source.LocalRoot)
			default:
				fmt.Fprintln(out, "no template source configured")
			}
			return nil
		},
	}
}

func newConfigClearCmd(baseDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the configured template source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*baseDir)
			if err != nil {
				return err
			}

			if err := app.config.ClearSource(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Template source cleared")
			return nil
		},
	}
}
