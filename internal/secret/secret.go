// Package secret supplies the remote auth token.
package secret

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider supplies the token used for remote API requests.
type Provider interface {
	// Token returns the auth token and whether one is available.
	Token() (string, bool)
}

// githubTokenEnvVars lists the environment variables checked for a GitHub
// token, in priority order.
var githubTokenEnvVars = []string{
	"GITHUB_TOKEN",
	"GH_TOKEN",
}

// EnvProvider reads the token from the environment.
type EnvProvider struct{}

// Token checks GITHUB_TOKEN first, then GH_TOKEN.
func (EnvProvider) Token() (string, bool) {
	for _, env := range githubTokenEnvVars {
		if v := os.Getenv(env); v != "" {
			return v, true
		}
	}
	return "", false
}

// Static is a fixed-token provider, mainly for tests.
type Static string

func (s Static) Token() (string, bool) {
	return string(s), s != ""
}

// Store persists an explicitly set token on disk. A stored token takes
// precedence over the environment until it is cleared.
type Store struct {
	path string
}

// NewStore creates a token store rooted under baseDir.
func NewStore(baseDir string) *Store {
	return &Store{path: filepath.Join(baseDir, ".quarry", "token")}
}

// Save writes the token, readable only by the owner.
func (s *Store) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Load returns the stored token, if any.
func (s *Store) Load() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	return token, token != ""
}

// Clear removes the stored token. Clearing an absent token is not an
// error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
