package config

import (
	"slices"
	"sync"

	"arbor/internal/model"
	"arbor/internal/tree"
)

// Store holds the current configuration snapshot and hands out consistent
// reads while the watcher replaces it. It implements tree.Settings.
type Store struct {
	mu  sync.RWMutex
	cfg *Config
}

func NewStore(cfg *Config) *Store {
	return &Store{cfg: cfg}
}

// Current returns a copy of the active configuration.
func (s *Store) Current() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.cfg
}

// Replace installs a new snapshot and returns the dotted keys of the settings
// that changed.
func (s *Store) Replace(cfg *Config) []string {
	s.mu.Lock()
	old := s.cfg
	s.cfg = cfg
	s.mu.Unlock()
	return diffKeys(old, cfg)
}

// RemotesAllowListConfigured reports whether a remotes allow-list exists.
func (s *Store) RemotesAllowListConfigured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cfg.PullRequests.Remotes) > 0
}

// AllowsRemote reports whether a remote name passes the allow-list. With no
// allow-list configured every remote passes.
func (s *Store) AllowsRemote(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.cfg.PullRequests.Remotes) == 0 {
		return true
	}
	return slices.Contains(s.cfg.PullRequests.Remotes, name)
}

// Queries returns the configured query categories.
func (s *Store) Queries() []model.Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.cfg.PullRequests.Queries)
}

// PageSize returns the pull-request page size.
func (s *Store) PageSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.PullRequests.PageSize
}

// diffKeys compares two snapshots and reports which dotted setting keys
// differ.
func diffKeys(old, next *Config) []string {
	var keys []string
	if !slices.Equal(old.PullRequests.Remotes, next.PullRequests.Remotes) {
		keys = append(keys, tree.SettingRemotes)
	}
	if !slices.Equal(old.PullRequests.Queries, next.PullRequests.Queries) {
		keys = append(keys, tree.SettingQueries)
	}
	if old.PullRequests.FileListLayout != next.PullRequests.FileListLayout {
		keys = append(keys, tree.SettingFileListLayout)
	}
	if old.PullRequests.PageSize != next.PullRequests.PageSize {
		keys = append(keys, "pullRequests.pageSize")
	}
	if old.Logging != next.Logging {
		keys = append(keys, "logging")
	}
	return keys
}
