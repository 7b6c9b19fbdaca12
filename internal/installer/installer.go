// Package installer copies a chosen template into a target project.
package installer

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/quarry-dev/quarry/internal/models"
)

// ContentFetcher resolves a download reference into file bytes.
type ContentFetcher func(ctx context.Context, ref string) ([]byte, error)

// Installer writes template files into target directories.
type Installer struct {
	fetch ContentFetcher
}

// New creates an Installer over the given content fetcher.
func New(fetch ContentFetcher) *Installer {
	return &Installer{fetch: fetch}
}

// Install fetches the template's bytes and writes them under targetDir,
// keeping the template's file name. An existing file is not overwritten
// unless overwrite is set. Returns the written path.
func (i *Installer) Install(ctx context.Context, tmpl models.TemplateMetadata, targetDir string, overwrite bool) (string, error) {
	data, err := i.fetch(ctx, tmpl.DownloadRef)
	if err != nil {
		return "", fmt.Errorf("failed to fetch template %s: %w", tmpl.Path, err)
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create target directory: %w", err)
	}

	targetPath := filepath.Join(targetDir, path.Base(tmpl.Path))
	if !overwrite {
		if _, err := os.Stat(targetPath); err == nil {
			return "", fmt.Errorf("%s already exists (use --force to overwrite)", targetPath)
		}
	}

	if err := os.WriteFile(targetPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write template file: %w", err)
	}

	return targetPath, nil
}
