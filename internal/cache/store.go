// Package cache persists the last successfully fetched template list per
// repository identity, so repeated catalogue refreshes do not re-hit the
// network.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/quarry-dev/quarry/internal/models"
)

// Entry is one cached catalogue snapshot.
type Entry struct {
	Templates []models.TemplateMetadata `json:"templates"`
	FetchedAt time.Time                 `json:"fetched_at"`
}

// Store is a persisted key-value cache keyed by repository identity
// ("owner/repo[/path]"). Entries survive process restarts and are never
// evicted by age: freshness is a read-time predicate, and stale entries
// remain available as a fallback when a refetch fails.
type Store struct {
	cacheDir  string
	cacheFile string
	entries   map[string]*Entry
	mu        sync.RWMutex // Protects entries map from concurrent access
	now       func() time.Time
}

// NewStore creates a cache store rooted under baseDir.
func NewStore(baseDir string) *Store {
	cacheDir := filepath.Join(baseDir, ".quarry", "cache")
	return &Store{
		cacheDir:  cacheDir,
		cacheFile: filepath.Join(cacheDir, "catalog.json"),
		entries:   make(map[string]*Entry),
		now:       time.Now,
	}
}

// Load loads the cache from disk.
func (s *Store) Load() error {
	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := os.ReadFile(s.cacheFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No cache file exists yet
		}
		return fmt.Errorf("failed to read cache file: %w", err)
	}

	s.mu.Lock()
	if err := json.Unmarshal(data, &s.entries); err != nil {
		// If the cache is corrupted, start fresh
		s.entries = make(map[string]*Entry)
	}
	s.mu.Unlock()

	return nil
}

// save writes the cache to disk. Concurrent fetches for the same key
// converge to equivalent data, so last writer wins.
func (s *Store) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.entries, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(s.cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// Get retrieves the cached entry for a key, fresh or not. The returned
// entry is a copy; mutating it does not touch the store.
func (s *Store) Get(key string) (*Entry, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return &Entry{
		Templates: append([]models.TemplateMetadata(nil), entry.Templates...),
		FetchedAt: entry.FetchedAt,
	}, true
}

// Set records a successfully fetched template list under key with
// FetchedAt set to now, and persists the cache.
func (s *Store) Set(key string, templates []models.TemplateMetadata) error {
	s.mu.Lock()
	s.entries[key] = &Entry{
		Templates: templates,
		FetchedAt: s.now(),
	}
	s.mu.Unlock()

	return s.save()
}

// IsFresh reports whether an entry exists for key and was fetched within
// the given window. It is a pure read-time check.
func (s *Store) IsFresh(key string, maxAge time.Duration) bool {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return s.now().Sub(entry.FetchedAt) <= maxAge
}

// Invalidate removes the entry for key. Invalidating an absent key is not
// an error.
func (s *Store) Invalidate(key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()

	return s.save()
}

// InvalidateAll removes every cached entry.
func (s *Store) InvalidateAll() error {
	s.mu.Lock()
	s.entries = make(map[string]*Entry)
	s.mu.Unlock()

	return s.save()
}

// Keys returns the identities with cached entries.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}
