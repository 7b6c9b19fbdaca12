package models

import (
	"path"
	"strings"
	"time"
)

// TemplateExt is the file extension that marks a file as a template.
const TemplateExt = ".md"

// TemplateMetadata describes one discovered template file, either in a
// remote repository or on local disk.
type TemplateMetadata struct {
	// Name is the display name: the file name without its extension.
	Name string `json:"name"`

	// Path is the full slash-separated path relative to the configured
	// root. Unique within one catalogue snapshot.
	Path string `json:"path"`

	// DownloadRef locates the template's bytes: a raw content URL for
	// remote sources, an absolute path for local sources.
	DownloadRef string `json:"download_ref"`

	// Description is taken from optional YAML frontmatter, when known.
	Description string `json:"description,omitempty"`

	SizeBytes    int64      `json:"size_bytes,omitempty"`
	LastModified *time.Time `json:"last_modified,omitempty"`
}

// NameFromPath derives a template's display name from the trailing
// segment of its path, with the template extension stripped.
func NameFromPath(p string) string {
	return strings.TrimSuffix(path.Base(p), TemplateExt)
}

// IsTemplatePath reports whether a path names a template file.
func IsTemplatePath(p string) bool {
	return strings.HasSuffix(p, TemplateExt)
}
