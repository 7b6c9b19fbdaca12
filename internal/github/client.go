// Package github talks to the GitHub repository contents API to discover
// template files. It is purely read-only: it lists directories, filters for
// template files, and fetches file bytes on request.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/quarry-dev/quarry/internal/errors"
	"github.com/quarry-dev/quarry/internal/models"
)

const (
	defaultAPIBase = "https://api.github.com"

	// maxTreeDepth bounds the directory walk. The remote tree is assumed
	// acyclic, but this is not trusted blindly: traversal past this depth
	// fails closed with a TREE_TOO_DEEP classification.
	maxTreeDepth = 32

	userAgent = "quarry-template-catalog"
)

// Client fetches template listings and contents from GitHub.
type Client struct {
	httpClient *http.Client
	apiBase    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAPIBase points the client at another API endpoint (tests, GitHub
// Enterprise installs).
func WithAPIBase(base string) Option {
	return func(c *Client) { c.apiBase = strings.TrimRight(base, "/") }
}

// NewClient creates a GitHub contents API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiBase:    defaultAPIBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// contentsEntry is one item in a GitHub contents API directory listing.
type contentsEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"` // "file", "dir", "symlink", "submodule"
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
}

// pendingDir is one directory level awaiting a listing request.
type pendingDir struct {
	path  string
	depth int
}

// ListTemplates produces the full recursive flat list of template metadata
// for every template file under the configured root, or fails with a
// classified error.
//
// The walk is an explicit worklist processed depth-first, one listing
// request per directory level. Cancellation is checked between requests;
// a partial walk is never returned.
func (c *Client) ListTemplates(ctx context.Context, repo models.RepositoryConfig, token string) ([]models.TemplateMetadata, error) {
	if !repo.IsValid() {
		return nil, apperrors.ConfigurationError("repository owner and name must be configured")
	}

	root := strings.Trim(repo.Path, "/")
	stack := []pendingDir{{path: root, depth: 0}}
	var templates []models.TemplateMetadata

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.NetworkError("directory listing", err).WithDetails("fetch canceled")
		}

		// Depth-first: pop the most recently pushed directory.
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := c.listDirectory(ctx, repo, dir.path, token)
		if err != nil {
			return nil, err
		}

		// Directories are pushed in reverse so siblings are visited in
		// listing order.
		var dirs []pendingDir
		for _, entry := range entries {
			switch entry.Type {
			case "dir":
				if dir.depth+1 >= maxTreeDepth {
					return nil, apperrors.TooDeepError(entry.Path, maxTreeDepth)
				}
				dirs = append(dirs, pendingDir{path: entry.Path, depth: dir.depth + 1})
			case "file":
				if !models.IsTemplatePath(entry.Name) {
					continue // Non-template files are silently skipped
				}
				templates = append(templates, models.TemplateMetadata{
					Name:        models.NameFromPath(entry.Path),
					Path:        relativeTo(root, entry.Path),
					DownloadRef: entry.DownloadURL,
					SizeBytes:   entry.Size,
				})
			}
		}
		for i := len(dirs) - 1; i >= 0; i-- {
			stack = append(stack, dirs[i])
		}
	}

	return templates, nil
}

// DownloadTemplate fetches a single template's bytes by its download
// reference.
func (c *Client) DownloadTemplate(ctx context.Context, ref string, token string) ([]byte, error) {
	body, resp, err := c.get(ctx, ref, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp, "template "+ref)
	}
	return body, nil
}

// listDirectory issues one contents API request and decodes the result.
func (c *Client) listDirectory(ctx context.Context, repo models.RepositoryConfig, dirPath string, token string) ([]contentsEntry, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		c.apiBase,
		url.PathEscape(repo.Owner),
		url.PathEscape(repo.Repo),
		escapePath(dirPath),
		url.QueryEscape(repo.BranchOrDefault()),
	)

	body, resp, err := c.get(ctx, endpoint, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		what := repo.Identity()
		if dirPath != "" {
			what = repo.Owner + "/" + repo.Repo + "/" + dirPath
		}
		return nil, classifyStatus(resp, what)
	}

	var entries []contentsEntry
	if err := json.Unmarshal(body, &entries); err == nil {
		return entries, nil
	}

	// The API returns a bare object when the path names a file rather
	// than a directory. Accept it as a single-entry listing.
	var single contentsEntry
	if err := json.Unmarshal(body, &single); err != nil || single.Path == "" {
		return nil, apperrors.MalformedResponseError("listing "+repo.Identity(), err)
	}
	return []contentsEntry{single}, nil
}

// get performs one authenticated GET and reads the full body.
func (c *Client) get(ctx context.Context, endpoint string, token string) ([]byte, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, apperrors.MalformedResponseError("building request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, apperrors.NetworkError("GitHub request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, apperrors.NetworkError("reading GitHub response", err)
	}
	return body, resp, nil
}

// classifyStatus maps a non-200 response onto the failure taxonomy. A
// 401/403 is always an auth failure (never "not found"), except when the
// rate-limit quota is exhausted, which is reported as its own class with
// the reset time when the API provides one.
func classifyStatus(resp *http.Response, what string) *apperrors.AppError {
	statusErr := fmt.Errorf("HTTP %d", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFoundError(what)

	case resp.StatusCode == http.StatusTooManyRequests:
		return apperrors.RateLimitError(rateLimitReset(resp), statusErr)

	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		if resp.Header.Get("X-RateLimit-Remaining") == "0" {
			return apperrors.RateLimitError(rateLimitReset(resp), statusErr)
		}
		return apperrors.AuthError("GitHub rejected the credentials for "+what, statusErr)

	case resp.StatusCode >= 500:
		return apperrors.NetworkError("fetching "+what, statusErr)

	default:
		return apperrors.MalformedResponseError("fetching "+what, statusErr)
	}
}

// rateLimitReset extracts the quota reset time from response headers.
func rateLimitReset(resp *http.Response) *time.Time {
	if v := resp.Header.Get("X-RateLimit-Reset"); v != "" {
		if unix, err := strconv.ParseInt(v, 10, 64); err == nil {
			t := time.Unix(unix, 0)
			return &t
		}
	}
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			t := time.Now().Add(time.Duration(secs) * time.Second)
			return &t
		}
	}
	return nil
}

// relativeTo strips the configured root prefix from a repository path so
// template paths are relative to the root the user configured.
func relativeTo(root, full string) string {
	if root == "" {
		return full
	}
	return strings.TrimPrefix(strings.TrimPrefix(full, root), "/")
}

// escapePath escapes each segment of a slash-separated path.
func escapePath(p string) string {
	if p == "" {
		return ""
	}
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
