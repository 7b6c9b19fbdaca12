package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quarry-dev/quarry/internal/cache"
	"github.com/quarry-dev/quarry/internal/config"
	apperrors "github.com/quarry-dev/quarry/internal/errors"
	"github.com/quarry-dev/quarry/internal/models"
)

// fakeRemote is a scripted RemoteClient that counts its calls.
type fakeRemote struct {
	templates []models.TemplateMetadata
	err       error
	listCalls int
	lastToken string
}

func (f *fakeRemote) ListTemplates(_ context.Context, _ models.RepositoryConfig, token string) ([]models.TemplateMetadata, error) {
	f.listCalls++
	f.lastToken = token
	if f.err != nil {
		return nil, f.err
	}
	return f.templates, nil
}

func (f *fakeRemote) DownloadTemplate(_ context.Context, ref string, _ string) ([]byte, error) {
	return []byte("remote content of " + ref), nil
}

type fixture struct {
	catalog *Catalog
	config  *config.Config
	cache   *cache.Store
	remote  *fakeRemote
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	dir := t.TempDir()

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatal(err)
	}
	store := cache.NewStore(dir)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}

	remote := &fakeRemote{
		templates: []models.TemplateMetadata{
			{Name: "a", Path: "a.md", DownloadRef: "https://raw.example.test/a.md"},
			{Name: "b", Path: "docs/b.md", DownloadRef: "https://raw.example.test/docs/b.md"},
		},
	}

	opts = append([]Option{WithRemoteClient(remote)}, opts...)
	return &fixture{
		catalog: New(cfg, store, opts...),
		config:  cfg,
		cache:   store,
		remote:  remote,
	}
}

func (f *fixture) configureRemote(t *testing.T) {
	t.Helper()
	if err := f.config.SetRemote(models.RepositoryConfig{Owner: "octo", Repo: "templates"}); err != nil {
		t.Fatal(err)
	}
}

func TestRefreshUnconfigured(t *testing.T) {
	f := newFixture(t)

	result := f.catalog.Refresh(context.Background(), false)

	if result.Err != nil {
		t.Fatalf("expected no error for unconfigured source, got %v", result.Err)
	}
	if !result.NeedsSetup {
		t.Error("expected NeedsSetup flag")
	}
	if result.SourceLabel != "unconfigured" {
		t.Errorf("expected source label 'unconfigured', got %q", result.SourceLabel)
	}
	if result.Freshness != FreshnessNone {
		t.Errorf("expected freshness 'none', got %q", result.Freshness)
	}
	if len(result.Tree) != 0 {
		t.Errorf("expected empty tree, got %d nodes", len(result.Tree))
	}
}

func TestRefreshRemoteFetchesAndCaches(t *testing.T) {
	f := newFixture(t)
	f.configureRemote(t)

	result := f.catalog.Refresh(context.Background(), false)

	if result.Err != nil {
		t.Fatalf("refresh failed: %v", result.Err)
	}
	if result.Freshness != FreshnessFresh {
		t.Errorf("expected freshness 'fresh', got %q", result.Freshness)
	}
	if result.SourceLabel != "octo/templates@main" {
		t.Errorf("unexpected source label %q", result.SourceLabel)
	}
	if models.CountLeaves(result.Tree) != 2 {
		t.Errorf("expected 2 templates in tree, got %d", models.CountLeaves(result.Tree))
	}
	if _, ok := f.cache.Get("octo/templates"); !ok {
		t.Error("expected successful fetch to populate the cache")
	}
}

func TestRefreshServesFreshCacheWithoutNetwork(t *testing.T) {
	f := newFixture(t, WithFreshnessWindow(300*time.Second))
	f.configureRemote(t)

	first := f.catalog.Refresh(context.Background(), false)
	if first.Err != nil {
		t.Fatal(first.Err)
	}
	if f.remote.listCalls != 1 {
		t.Fatalf("expected 1 fetch, got %d", f.remote.listCalls)
	}

	second := f.catalog.Refresh(context.Background(), false)
	if second.Err != nil {
		t.Fatal(second.Err)
	}
	if second.Freshness != FreshnessCached {
		t.Errorf("expected freshness 'cached', got %q", second.Freshness)
	}
	if f.remote.listCalls != 1 {
		t.Errorf("expected zero additional network calls, got %d total", f.remote.listCalls)
	}
}

func TestRefreshForceSkipsFreshCache(t *testing.T) {
	f := newFixture(t, WithFreshnessWindow(time.Hour))
	f.configureRemote(t)

	f.catalog.Refresh(context.Background(), false)
	result := f.catalog.Refresh(context.Background(), true)

	if result.Freshness != FreshnessFresh {
		t.Errorf("expected forced refresh to refetch, got freshness %q", result.Freshness)
	}
	if f.remote.listCalls != 2 {
		t.Errorf("expected 2 fetches, got %d", f.remote.listCalls)
	}
}

func TestRefreshStaleFallbackOnFetchFailure(t *testing.T) {
	// A zero freshness window makes every cache entry immediately stale.
	f := newFixture(t, WithFreshnessWindow(0))
	f.configureRemote(t)

	first := f.catalog.Refresh(context.Background(), false)
	if first.Err != nil {
		t.Fatal(first.Err)
	}

	f.remote.err = apperrors.NetworkError("directory listing", os.ErrDeadlineExceeded)
	fallback := f.catalog.Refresh(context.Background(), true)

	if fallback.Err != nil {
		t.Fatalf("expected stale fallback, not an error: %v", fallback.Err)
	}
	if fallback.Freshness != FreshnessStale {
		t.Errorf("expected freshness 'stale', got %q", fallback.Freshness)
	}
	if models.CountLeaves(fallback.Tree) != 2 {
		t.Errorf("expected the previously fetched tree, got %d leaves", models.CountLeaves(fallback.Tree))
	}
}

func TestRefreshFirstFetchFailureIsHard(t *testing.T) {
	f := newFixture(t)
	f.configureRemote(t)
	f.remote.err = apperrors.NetworkError("directory listing", os.ErrDeadlineExceeded)

	result := f.catalog.Refresh(context.Background(), false)

	if result.Err == nil {
		t.Fatal("expected first-ever fetch failure to surface an error")
	}
	if result.Err.Code != apperrors.ErrCodeNetworkFailure {
		t.Errorf("expected NETWORK_FAILURE, got %s", result.Err.Code)
	}
	if result.Tree == nil || len(result.Tree) != 0 {
		t.Error("expected a renderable empty tree alongside the error")
	}
	if _, ok := f.cache.Get("octo/templates"); ok {
		t.Error("failed fetch must not populate the cache")
	}
}

func TestRefreshAuthFailureSurfacesRemediation(t *testing.T) {
	f := newFixture(t)
	f.configureRemote(t)
	f.remote.err = apperrors.AuthError("GitHub rejected the credentials", nil)

	result := f.catalog.Refresh(context.Background(), false)

	if result.Err == nil {
		t.Fatal("expected auth error")
	}
	if result.Err.Code != apperrors.ErrCodeAuthFailed {
		t.Errorf("expected AUTH_FAILED, got %s", result.Err.Code)
	}
	if result.Err.Remediation != "re-authenticate" {
		t.Errorf("expected remediation 're-authenticate', got %q", result.Err.Remediation)
	}
	if keys := f.cache.Keys(); len(keys) != 0 {
		t.Errorf("auth failure must not touch the cache store, found keys %v", keys)
	}
}

func TestRefreshLocalMode(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "starter.md"), []byte("# Starter"), 0644); err != nil {
		t.Fatal(err)
	}

	f := newFixture(t, WithLocalEnumerator(stubEnumerator{
		{Name: "starter", Path: "starter.md", DownloadRef: filepath.Join(dir, "starter.md")},
	}))
	if err := f.config.SetLocal(dir); err != nil {
		t.Fatal(err)
	}

	result := f.catalog.Refresh(context.Background(), false)

	if result.Err != nil {
		t.Fatalf("local refresh failed: %v", result.Err)
	}
	if result.Freshness != FreshnessFresh {
		t.Errorf("expected freshness 'fresh' for local mode, got %q", result.Freshness)
	}
	if f.remote.listCalls != 0 {
		t.Error("local mode must not call the remote client")
	}
	if len(f.cache.Keys()) != 0 {
		t.Error("local mode must not populate the cache")
	}
	if models.CountLeaves(result.Tree) != 1 {
		t.Errorf("expected 1 leaf, got %d", models.CountLeaves(result.Tree))
	}
}

// stubEnumerator returns a fixed listing.
type stubEnumerator []models.TemplateMetadata

func (s stubEnumerator) ListFiles(string) ([]models.TemplateMetadata, error) {
	return s, nil
}

func TestRefreshLocalPathError(t *testing.T) {
	f := newFixture(t, WithLocalEnumerator(failingEnumerator{}))
	if err := f.config.SetLocal(t.TempDir()); err != nil {
		t.Fatal(err)
	}

	result := f.catalog.Refresh(context.Background(), false)
	if result.Err == nil {
		t.Fatal("expected local path error")
	}
	if result.Err.Code != apperrors.ErrCodeLocalPath {
		t.Errorf("expected LOCAL_PATH_ERROR, got %s", result.Err.Code)
	}
	if result.Tree == nil {
		t.Error("expected a renderable empty tree")
	}
}

type failingEnumerator struct{}

func (failingEnumerator) ListFiles(root string) ([]models.TemplateMetadata, error) {
	return nil, apperrors.LocalPathError(root, os.ErrNotExist)
}

func TestAuthTokenOverride(t *testing.T) {
	f := newFixture(t, WithSecretProvider(stubSecret("env-token")))
	f.configureRemote(t)

	f.catalog.Refresh(context.Background(), false)
	if f.remote.lastToken != "env-token" {
		t.Errorf("expected secret provider token, got %q", f.remote.lastToken)
	}

	f.catalog.SetAuthToken("override-token")
	f.catalog.Refresh(context.Background(), true)
	if f.remote.lastToken != "override-token" {
		t.Errorf("expected override token, got %q", f.remote.lastToken)
	}

	f.catalog.ClearAuthToken()
	f.catalog.Refresh(context.Background(), true)
	if f.remote.lastToken != "env-token" {
		t.Errorf("expected fallback to secret provider after clear, got %q", f.remote.lastToken)
	}
}

type stubSecret string

func (s stubSecret) Token() (string, bool) { return string(s), true }

func TestSearchFiltersTemplates(t *testing.T) {
	f := newFixture(t)
	f.configureRemote(t)
	f.remote.templates = []models.TemplateMetadata{
		{Name: "bug-report", Path: "bug-report.md"},
		{Name: "feature-request", Path: "feature-request.md"},
		{Name: "pull-request", Path: "docs/pull-request.md"},
	}

	result, matches := f.catalog.Search(context.Background(), "request")
	if result.Err != nil {
		t.Fatal(result.Err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	for _, m := range matches {
		if m.Name != "feature-request" && m.Name != "pull-request" {
			t.Errorf("unexpected match %q", m.Name)
		}
	}

	_, all := f.catalog.Search(context.Background(), "")
	if len(all) != 3 {
		t.Errorf("expected empty query to return everything, got %d", len(all))
	}
}

func TestFindByPathAndName(t *testing.T) {
	f := newFixture(t)
	f.configureRemote(t)

	byPath, _, err := f.catalog.Find(context.Background(), "docs/b.md")
	if err != nil {
		t.Fatalf("Find by path failed: %v", err)
	}
	if byPath.Name != "b" {
		t.Errorf("expected template 'b', got %q", byPath.Name)
	}

	byName, _, err := f.catalog.Find(context.Background(), "a")
	if err != nil {
		t.Fatalf("Find by name failed: %v", err)
	}
	if byName.Path != "a.md" {
		t.Errorf("expected path 'a.md', got %q", byName.Path)
	}

	if _, _, err := f.catalog.Find(context.Background(), "missing"); err == nil {
		t.Error("expected Find of unknown template to fail")
	}
}

func TestInvalidateActiveSource(t *testing.T) {
	f := newFixture(t, WithFreshnessWindow(time.Hour))
	f.configureRemote(t)

	f.catalog.Refresh(context.Background(), false)
	if err := f.catalog.Invalidate(""); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}

	f.catalog.Refresh(context.Background(), false)
	if f.remote.listCalls != 2 {
		t.Errorf("expected refetch after invalidation, got %d calls", f.remote.listCalls)
	}
}

func TestDownloadLocalReference(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.md")
	if err := os.WriteFile(path, []byte("local bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	f := newFixture(t)
	data, err := f.catalog.Download(context.Background(), path)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if string(data) != "local bytes" {
		t.Errorf("unexpected content %q", string(data))
	}
}

func TestDownloadRemoteReference(t *testing.T) {
	f := newFixture(t)
	data, err := f.catalog.Download(context.Background(), "https://raw.example.test/a.md")
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if string(data) != "remote content of https://raw.example.test/a.md" {
		t.Errorf("unexpected content %q", string(data))
	}
}
