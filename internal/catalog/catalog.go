// Package catalog coordinates configuration, cache, remote fetching and
// tree assembly into a single catalogue surface.
package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/quarry-dev/quarry/internal/cache"
	"github.com/quarry-dev/quarry/internal/config"
	apperrors "github.com/quarry-dev/quarry/internal/errors"
	"github.com/quarry-dev/quarry/internal/models"
	"github.com/quarry-dev/quarry/internal/tree"

	"github.com/sahilm/fuzzy"
)

// Freshness labels how current the served catalogue is.
type Freshness string

const (
	// FreshnessFresh: the list was fetched (or read from disk) just now.
	FreshnessFresh Freshness = "fresh"
	// FreshnessCached: served from cache within the freshness window.
	FreshnessCached Freshness = "cached"
	// FreshnessStale: a refetch failed and an expired cache entry was
	// served as a fallback.
	FreshnessStale Freshness = "stale"
	// FreshnessNone: nothing was served.
	FreshnessNone Freshness = "none"
)

// DefaultFreshnessWindow is the maximum age for which a cached template
// list is served without refetching.
const DefaultFreshnessWindow = 5 * time.Minute

// Result is the outcome of one catalogue request. Refresh always returns
// a renderable Result: on failure Tree is empty and Err carries the
// classified error, never a raw transport failure.
type Result struct {
	Tree        []models.Node
	Templates   []models.TemplateMetadata
	SourceLabel string
	Freshness   Freshness
	NeedsSetup  bool
	Err         *apperrors.AppError
}

// RemoteClient lists and downloads templates from a remote repository.
type RemoteClient interface {
	ListTemplates(ctx context.Context, repo models.RepositoryConfig, token string) ([]models.TemplateMetadata, error)
	DownloadTemplate(ctx context.Context, ref string, token string) ([]byte, error)
}

// LocalEnumerator lists template files under a local root directory.
type LocalEnumerator interface {
	ListFiles(root string) ([]models.TemplateMetadata, error)
}

// SecretProvider supplies the remote auth token.
type SecretProvider interface {
	Token() (string, bool)
}

// Notifier surfaces catalogue outcomes to the user.
type Notifier interface {
	Info(message string)
	Error(message string)
}

// noopNotifier swallows notifications when no notifier is wired.
type noopNotifier struct{}

func (noopNotifier) Info(string)  {}
func (noopNotifier) Error(string) {}

// Catalog is the catalogue orchestrator.
type Catalog struct {
	config   *config.Config
	cache    *cache.Store
	remote   RemoteClient
	local    LocalEnumerator
	secrets  SecretProvider
	notifier Notifier
	window   time.Duration

	mu            sync.Mutex
	tokenOverride string
	hasOverride   bool
}

// Option configures a Catalog.
type Option func(*Catalog)

func WithRemoteClient(rc RemoteClient) Option {
	return func(c *Catalog) { c.remote = rc }
}

func WithLocalEnumerator(le LocalEnumerator) Option {
	return func(c *Catalog) { c.local = le }
}

func WithSecretProvider(sp SecretProvider) Option {
	return func(c *Catalog) { c.secrets = sp }
}

func WithNotifier(n Notifier) Option {
	return func(c *Catalog) { c.notifier = n }
}

// WithFreshnessWindow overrides the freshness window.
func WithFreshnessWindow(window time.Duration) Option {
	return func(c *Catalog) { c.window = window }
}

// New creates a catalogue over the given configuration and cache store.
func New(cfg *config.Config, store *cache.Store, opts ...Option) *Catalog {
	c := &Catalog{
		config:   cfg,
		cache:    store,
		notifier: noopNotifier{},
		window:   DefaultFreshnessWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAuthToken overrides the token supplied by the secret provider for
// subsequent requests.
func (c *Catalog) SetAuthToken(token string) {
	c.mu.Lock()
	c.tokenOverride = token
	c.hasOverride = true
	c.mu.Unlock()
}

// ClearAuthToken removes the override; the secret provider is consulted
// again on the next request.
func (c *Catalog) ClearAuthToken() {
	c.mu.Lock()
	c.tokenOverride = ""
	c.hasOverride = false
	c.mu.Unlock()
}

func (c *Catalog) token() string {
	c.mu.Lock()
	override, has := c.tokenOverride, c.hasOverride
	c.mu.Unlock()
	if has {
		return override
	}
	if c.secrets != nil {
		if token, ok := c.secrets.Token(); ok {
			return token
		}
	}
	return ""
}

// Refresh builds the catalogue for the active source. With force set the
// cache freshness window is ignored and the remote is always refetched.
//
// Refresh never fails outright unless it has nothing to serve: a refetch
// failure with a cached entry present falls back to serving the stale
// entry. Transient errors are not retried automatically; recovery is an
// explicit user-triggered refresh.
func (c *Catalog) Refresh(ctx context.Context, force bool) Result {
	source := c.config.Resolve()

	switch source.Kind {
	case models.SourceUnconfigured:
		// Not an error: the catalogue is empty until a source is chosen.
		return Result{
			Tree:        []models.Node{},
			SourceLabel: "unconfigured",
			Freshness:   FreshnessNone,
			NeedsSetup:  true,
		}

	case models.SourceLocal:
		return c.refreshLocal(source.LocalRoot)

	default:
		return c.refreshRemote(ctx, source.Remote, force)
	}
}

func (c *Catalog) refreshLocal(root string) Result {
	label := "local:" + root

	if c.local == nil {
		return failedResult(label, apperrors.ConfigurationError("no local enumerator configured"))
	}

	templates, err := c.local.ListFiles(root)
	if err != nil {
		return failedResult(label, apperrors.GetAppError(err))
	}

	// Disk reads are cheap and synchronous; local mode bypasses the cache.
	return Result{
		Tree:        tree.Build(templates),
		Templates:   templates,
		SourceLabel: label,
		Freshness:   FreshnessFresh,
	}
}

func (c *Catalog) refreshRemote(ctx context.Context, repo models.RepositoryConfig, force bool) Result {
	key := repo.Identity()
	label := key + "@" + repo.BranchOrDefault()

	if c.remote == nil {
		return failedResult(label, apperrors.ConfigurationError("no remote client configured"))
	}

	if !force && c.cache.IsFresh(key, c.window) {
		if entry, ok := c.cache.Get(key); ok {
			return readyResult(entry.Templates, label, FreshnessCached)
		}
	}

	templates, err := c.remote.ListTemplates(ctx, repo, c.token())
	if err != nil {
		appErr := apperrors.GetAppError(err)

		// A stale entry beats a hard failure. The first-ever fetch has no
		// entry to fall back to and fails hard.
		if entry, ok := c.cache.Get(key); ok {
			c.notifier.Error(fmt.Sprintf("%s; serving cached catalogue from %s",
				appErr.Message, entry.FetchedAt.Format(time.RFC822)))
			return readyResult(entry.Templates, label, FreshnessStale)
		}
		return failedResult(label, appErr)
	}

	// Only a fully completed fetch is written to the cache.
	if err := c.cache.Set(key, templates); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to persist catalogue cache: %v\n", err)
	}

	return readyResult(templates, label, FreshnessFresh)
}

func readyResult(templates []models.TemplateMetadata, label string, freshness Freshness) Result {
	return Result{
		Tree:        tree.Build(templates),
		Templates:   templates,
		SourceLabel: label,
		Freshness:   freshness,
	}
}

func failedResult(label string, appErr *apperrors.AppError) Result {
	return Result{
		Tree:        []models.Node{},
		SourceLabel: label,
		Freshness:   FreshnessNone,
		Err:         appErr,
	}
}

// Search refreshes the catalogue (respecting the cache) and fuzzy-filters
// the flat template list by name, path and description.
func (c *Catalog) Search(ctx context.Context, query string) (Result, []models.TemplateMetadata) {
	result := c.Refresh(ctx, false)
	if result.Err != nil || query == "" {
		return result, result.Templates
	}

	var searchStrings []string
	for _, t := range result.Templates {
		searchStrings = append(searchStrings, fmt.Sprintf("%s %s %s", t.Name, t.Path, t.Description))
	}

	matches := fuzzy.Find(query, searchStrings)

	var filtered []models.TemplateMetadata
	for _, match := range matches {
		filtered = append(filtered, result.Templates[match.Index])
	}
	return result, filtered
}

// Find returns the template whose path or name matches ref exactly.
func (c *Catalog) Find(ctx context.Context, ref string) (models.TemplateMetadata, Result, error) {
	result := c.Refresh(ctx, false)
	if result.Err != nil {
		return models.TemplateMetadata{}, result, result.Err
	}
	for _, t := range result.Templates {
		if t.Path == ref || t.Name == ref {
			return t, result, nil
		}
	}
	return models.TemplateMetadata{}, result, apperrors.NotFoundError("template " + ref)
}

// Download fetches the bytes of one template by its download reference.
// Local references (absolute paths) are read from disk; remote references
// go through the remote client.
func (c *Catalog) Download(ctx context.Context, ref string) ([]byte, error) {
	if !strings.Contains(ref, "://") {
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, apperrors.LocalPathError(ref, err)
		}
		return data, nil
	}
	if c.remote == nil {
		return nil, apperrors.ConfigurationError("no remote client configured")
	}
	return c.remote.DownloadTemplate(ctx, ref, c.token())
}

// Invalidate removes the cache entry for key; an empty key targets the
// active remote source.
func (c *Catalog) Invalidate(key string) error {
	if key == "" {
		source := c.config.Resolve()
		if source.Kind != models.SourceRemote {
			return apperrors.ConfigurationError("no remote source configured to invalidate")
		}
		key = source.Remote.Identity()
	}
	return c.cache.Invalidate(key)
}

// InvalidateAll clears every cached catalogue.
func (c *Catalog) InvalidateAll() error {
	return c.cache.InvalidateAll()
}
