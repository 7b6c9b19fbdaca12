// Package local enumerates template files on local disk. Local mode is
// deliberately simpler than remote mode: only the root directory's
// immediate entries are listed, synchronously and without caching.
package local

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/quarry-dev/quarry/internal/errors"
	"github.com/quarry-dev/quarry/internal/models"

	"gopkg.in/yaml.v3"
)

// Enumerator lists template files under a local root directory.
type Enumerator struct{}

// ListFiles returns metadata for every template file directly under root
// (non-recursive). Other entries are silently skipped. The download
// reference of each result is the file's absolute path.
func (Enumerator) ListFiles(root string) ([]models.TemplateMetadata, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, apperrors.LocalPathError(root, err)
	}

	var templates []models.TemplateMetadata
	for _, entry := range entries {
		if entry.IsDir() || !models.IsTemplatePath(entry.Name()) {
			continue
		}

		absPath, err := filepath.Abs(filepath.Join(root, entry.Name()))
		if err != nil {
			return nil, apperrors.LocalPathError(root, err)
		}

		tmpl := models.TemplateMetadata{
			Name:        models.NameFromPath(entry.Name()),
			Path:        entry.Name(),
			DownloadRef: absPath,
		}
		if info, err := entry.Info(); err == nil {
			tmpl.SizeBytes = info.Size()
			modTime := info.ModTime()
			tmpl.LastModified = &modTime
		}
		if desc, err := readDescription(absPath); err == nil {
			tmpl.Description = desc
		} else {
			fmt.Fprintf(os.Stderr, "Warning: failed to read %s: %v\n", entry.Name(), err)
		}

		templates = append(templates, tmpl)
	}

	return templates, nil
}

// Frontmatter is the subset of template frontmatter the catalogue surfaces.
type Frontmatter struct {
	Description string `yaml:"description"`
}

// readDescription extracts the description field from a template's YAML
// frontmatter. Templates without frontmatter yield an empty description.
func readDescription(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	fm, err := ParseFrontmatter(content)
	if err != nil {
		return "", err
	}
	return fm.Description, nil
}

// ParseFrontmatter parses optional "---" delimited YAML frontmatter from
// template content. Content without a frontmatter block is not an error.
func ParseFrontmatter(content []byte) (Frontmatter, error) {
	var fm Frontmatter

	scanner := bufio.NewScanner(bytes.NewReader(content))
	if !scanner.Scan() || scanner.Text() != "---" {
		return fm, nil
	}

	var frontmatterLines []string
	closed := false
	for scanner.Scan() {
		line := scanner.Text()
		if line == "---" {
			closed = true
			break
		}
		frontmatterLines = append(frontmatterLines, line)
	}
	if !closed {
		return fm, fmt.Errorf("unterminated frontmatter block")
	}

	raw := strings.Join(frontmatterLines, "\n")
	if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
		return fm, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	return fm, nil
}
