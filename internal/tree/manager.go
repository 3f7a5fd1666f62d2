package tree

import (
	"context"

	"arbor/internal/model"
)

// ManagerState is the lifecycle state of the data-source manager.
type ManagerState int

const (
	StateInitializing ManagerState = iota
	StateNeedsAuthentication
	StateRepositoriesLoaded
)

func (s ManagerState) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateNeedsAuthentication:
		return "needsAuthentication"
	case StateRepositoriesLoaded:
		return "repositoriesLoaded"
	}
	return "unknown"
}

// Manager is the data-source collaborator that owns repository and
// authentication state. The tree engine never fetches remote data itself; it
// only reads this interface and reacts to its change events.
type Manager interface {
	State() ManagerState
	Folders() []FolderManager
	OnDidChange(fn func()) Disposable
}

// FolderManager exposes one workspace folder's repository state.
type FolderManager interface {
	Folder() model.Folder

	// ProviderRemotes are the remotes hosted by a recognized provider,
	// already filtered by the remotes allow-list when one is configured.
	ProviderRemotes() []model.Remote

	// GitRemotes are all configured remotes, recognized or not.
	GitRemotes() []model.Remote

	// PullRequests loads one page of results for a query. hasMore reports
	// whether another page exists.
	PullRequests(ctx context.Context, q model.Query, page int) (prs []model.PullRequest, hasMore bool, err error)

	OnDidChange(fn func()) Disposable
}

// View is the host tree-view handle shared with nodes for item selection.
type View interface {
	Reveal(Node)
}

// Telemetry is the write-only, fire-and-forget event sink.
type Telemetry interface {
	Emit(event string, attrs map[string]any)
}

// Settings is the slice of configuration the engine reads.
type Settings interface {
	RemotesAllowListConfigured() bool
	Queries() []model.Query
}

func anyProviderRemote(folders []FolderManager) bool {
	for _, f := range folders {
		if len(f.ProviderRemotes()) > 0 {
			return true
		}
	}
	return false
}

func anyGitRemote(folders []FolderManager) bool {
	for _, f := range folders {
		if len(f.GitRemotes()) > 0 {
			return true
		}
	}
	return false
}
