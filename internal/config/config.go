package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"arbor/internal/model"
)

// Config is the application configuration, read from
// ~/.config/arbor/config.yaml.
type Config struct {
	PullRequests PullRequestsConfig `yaml:"pullRequests"`
	Logging      LoggingConfig      `yaml:"logging"`

	// CallbackHost is the canonical callback address probed by the
	// environment classifier.
	CallbackHost string `yaml:"callbackHost"`
}

// PullRequestsConfig holds the tree-facing settings.
type PullRequestsConfig struct {
	// Remotes is the allow-list of remote names to consider. Empty means no
	// allow-list is configured and every recognized remote counts.
	Remotes []string `yaml:"remotes"`

	// Queries are the labelled categories shown under each folder.
	Queries []model.Query `yaml:"queries"`

	// FileListLayout is "tree" or "flat".
	FileListLayout string `yaml:"fileListLayout"`

	// PageSize is the number of pull requests loaded per page.
	PageSize int `yaml:"pageSize"`
}

// LoggingConfig controls the process log.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		PullRequests: PullRequestsConfig{
			Queries: []model.Query{
				{Label: "Waiting For My Review", Query: "is:open review-requested:@me"},
				{Label: "Assigned To Me", Query: "is:open assignee:@me"},
				{Label: "Created By Me", Query: "is:open author:@me"},
			},
			FileListLayout: "tree",
			PageSize:       20,
		},
		Logging:      LoggingConfig{Level: "info"},
		CallbackHost: "vscode.dev",
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "arbor", "config.yaml"), nil
}

// Load reads the config at path, layering it over the defaults. A missing
// file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.PullRequests.PageSize <= 0 {
		cfg.PullRequests.PageSize = Default().PullRequests.PageSize
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
