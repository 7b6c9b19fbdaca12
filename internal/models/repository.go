package models

import "strings"

// DefaultBranch is used when a repository config does not name a branch.
const DefaultBranch = "main"

// RepositoryConfig identifies one remote template source: a repository
// plus an optional subdirectory root within it.
type RepositoryConfig struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Path   string `json:"path,omitempty"`   // Subdirectory root, empty for repo root
	Branch string `json:"branch,omitempty"` // Defaults to DefaultBranch
}

// IsValid reports whether the config names a usable repository.
func (r RepositoryConfig) IsValid() bool {
	return r.Owner != "" && r.Repo != ""
}

// Identity returns the stable string key ("owner/repo[/path]") used for
// cache records and fetch URLs.
func (r RepositoryConfig) Identity() string {
	id := r.Owner + "/" + r.Repo
	if p := strings.Trim(r.Path, "/"); p != "" {
		id += "/" + p
	}
	return id
}

// BranchOrDefault returns the configured branch, or DefaultBranch.
func (r RepositoryConfig) BranchOrDefault() string {
	if r.Branch == "" {
		return DefaultBranch
	}
	return r.Branch
}

// SourceKind tags the active configuration source variant.
type SourceKind int

const (
	SourceUnconfigured SourceKind = iota
	SourceRemote
	SourceLocal
)

// String returns the user-facing label for a source kind.
func (k SourceKind) String() string {
	switch k {
	case SourceRemote:
		return "remote"
	case SourceLocal:
		return "local"
	default:
		return "unconfigured"
	}
}

// Source is the resolved configuration source. Exactly one variant is
// active: Remote is meaningful only when Kind is SourceRemote, LocalRoot
// only when Kind is SourceLocal.
type Source struct {
	Kind      SourceKind
	Remote    RepositoryConfig
	LocalRoot string
}
