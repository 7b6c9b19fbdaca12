// Package cli provides the quarry command surface. It is a thin host
// shell around the catalogue orchestrator: every command resolves the
// configured source, asks the catalogue for a result, and renders it.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quarry-dev/quarry/internal/cache"
	"github.com/quarry-dev/quarry/internal/catalog"
	"github.com/quarry-dev/quarry/internal/config"
	apperrors "github.com/quarry-dev/quarry/internal/errors"
	"github.com/quarry-dev/quarry/internal/github"
	"github.com/quarry-dev/quarry/internal/local"
	"github.com/quarry-dev/quarry/internal/secret"
)

// version is set at build time via -ldflags.
var version = "dev"

// app bundles the wired services shared by all commands.
type app struct {
	config  *config.Config
	catalog *catalog.Catalog
}

// resolveBaseDir expands an empty base directory to the user's home.
func resolveBaseDir(baseDir string) (string, error) {
	if baseDir != "" {
		return baseDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return home, nil
}

// newApp wires configuration, cache, remote client and catalogue for the
// given base directory ("" means the user's home directory).
func newApp(baseDir string) (*app, error) {
	cfg, err := config.New(baseDir)
	if err != nil {
		return nil, err
	}

	baseDir, err = resolveBaseDir(baseDir)
	if err != nil {
		return nil, err
	}

	store := cache.NewStore(baseDir)
	if err := store.Load(); err != nil {
		return nil, err
	}

	cat := catalog.New(cfg, store,
		catalog.WithRemoteClient(github.NewClient()),
		catalog.WithLocalEnumerator(local.Enumerator{}),
		catalog.WithSecretProvider(secret.EnvProvider{}),
		catalog.WithNotifier(stderrNotifier{}),
	)

	// A token stored via `auth set-token` beats the environment.
	if token, ok := secret.NewStore(baseDir).Load(); ok {
		cat.SetAuthToken(token)
	}

	return &app{config: cfg, catalog: cat}, nil
}

// NewRootCmd creates the top-level `quarry` command.
func NewRootCmd() *cobra.Command {
	var baseDir string

	root := &cobra.Command{
		Use:   "quarry",
		Short: "Discover and install markdown templates",
		Long: `quarry discovers named markdown templates from a GitHub repository or a
local directory, presents them as a navigable tree, and copies a selected
template into your project. Remote listings are cached on disk so repeated
refreshes do not re-hit the network.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&baseDir, "base-dir", "", "base directory for configuration and cache (default: home directory)")

	root.AddCommand(newListCmd(&baseDir))
	root.AddCommand(newRefreshCmd(&baseDir))
	root.AddCommand(newSearchCmd(&baseDir))
	root.AddCommand(newAuthCmd(&baseDir))
	root.AddCommand(newPreviewCmd(&baseDir))
	root.AddCommand(newInstallCmd(&baseDir))
	root.AddCommand(newConfigCmd(&baseDir))
	root.AddCommand(newInvalidateCmd(&baseDir))

	return root
}

// Execute runs the root command.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// reportFailure prints a classified error with its remediation and returns
// an error suitable for cobra.
func reportFailure(appErr *apperrors.AppError) error {
	if appErr.Remediation != "" {
		return fmt.Errorf("%s (try: %s)", appErr.Message, appErr.Remediation)
	}
	return fmt.Errorf("%s", appErr.Message)
}
