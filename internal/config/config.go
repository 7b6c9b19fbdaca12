// Package config persists the active template source and resolves which
// source variant is in effect.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quarry-dev/quarry/internal/models"
)

// settings is the persisted configuration record.
type settings struct {
	Remote    models.RepositoryConfig `json:"remote,omitempty"`
	LocalRoot string                  `json:"local_root,omitempty"`
}

// Config manages the persisted source configuration.
type Config struct {
	configPath string
	settings   settings
}

// New creates a configuration manager rooted under baseDir and loads any
// existing configuration. An empty baseDir defaults to the user's home
// directory.
func New(baseDir string) (*Config, error) {
	if baseDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = homeDir
	}

	configPath := filepath.Join(baseDir, ".quarry", "config.json")
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	c := &Config{configPath: configPath}
	if err := c.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return c, nil
}

func (c *Config) load() error {
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &c.settings)
}

func (c *Config) save() error {
	data, err := json.MarshalIndent(c.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	return os.WriteFile(c.configPath, data, 0644)
}

// Resolve returns the active configuration source. A valid remote config
// (owner and repo both non-empty) takes precedence over a local root; with
// neither present the source is unconfigured. Switching between remote and
// local is an explicit user action, never an automatic fallback.
func (c *Config) Resolve() models.Source {
	if c.settings.Remote.IsValid() {
		return models.Source{Kind: models.SourceRemote, Remote: c.settings.Remote}
	}
	if c.settings.LocalRoot != "" {
		return models.Source{Kind: models.SourceLocal, LocalRoot: c.settings.LocalRoot}
	}
	return models.Source{Kind: models.SourceUnconfigured}
}

// SetRemote configures a remote repository source and persists it. Any
// local root is cleared so exactly one source variant stays recorded.
func (c *Config) SetRemote(repo models.RepositoryConfig) error {
	if !repo.IsValid() {
		return fmt.Errorf("repository owner and name are required")
	}
	c.settings.Remote = repo
	c.settings.LocalRoot = ""
	return c.save()
}

// SetLocal configures a local directory source and persists it. The remote
// configuration is cleared: source switching is explicit and exactly one
// variant is active at a time.
func (c *Config) SetLocal(root string) error {
	if root == "" {
		return fmt.Errorf("local root path is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve local root: %w", err)
	}
	c.settings.LocalRoot = abs
	c.settings.Remote = models.RepositoryConfig{}
	return c.save()
}

// ClearSource removes any configured source.
func (c *Config) ClearSource() error {
	c.settings = settings{}
	return c.save()
}

// Remote returns the persisted remote repository config, valid or not.
func (c *Config) Remote() models.RepositoryConfig {
	return c.settings.Remote
}

// LocalRoot returns the persisted local root path, if any.
func (c *Config) LocalRoot() string {
	return c.settings.LocalRoot
}
