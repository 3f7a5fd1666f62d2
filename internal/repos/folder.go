package repos

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"arbor/internal/config"
	"arbor/internal/forge"
	"arbor/internal/git"
	"arbor/internal/model"
	"arbor/internal/tree"
)

// FolderManager owns one workspace folder's repository state: its configured
// remotes, which of them a recognized provider hosts, and the forge used to
// load pull requests.
type FolderManager struct {
	folder model.Folder
	store  *config.Store

	mu       sync.Mutex
	remotes  []model.Remote
	provider []model.Remote
	fg       forge.Forge
	authed   bool

	listeners listenerSet
}

func NewFolderManager(folder model.Folder, store *config.Store) *FolderManager {
	return &FolderManager{folder: folder, store: store}
}

func (f *FolderManager) Folder() model.Folder { return f.folder }

// Scan re-reads the folder's repository state and notifies listeners.
func (f *FolderManager) Scan(ctx context.Context) {
	var remotes []model.Remote
	if git.IsRepo(f.folder.Path) {
		var err error
		remotes, err = git.Remotes(f.folder.Path)
		if err != nil {
			slog.Warn("listing remotes failed", "folder", f.folder.Path, "err", err)
		}
	}

	provider := filterProviderRemotes(remotes, f.store.AllowsRemote)

	var fg forge.Forge
	for _, r := range provider {
		if fg = forge.ForgeFor(r); fg != nil {
			break
		}
	}
	authed := false
	if fg != nil {
		authed = fg.Authenticated(ctx)
	}

	f.mu.Lock()
	f.remotes = remotes
	f.provider = provider
	f.fg = fg
	f.authed = authed
	f.mu.Unlock()

	f.listeners.notify()
}

// filterProviderRemotes keeps the remotes a recognized provider hosts that
// also pass the allow-list.
func filterProviderRemotes(remotes []model.Remote, allows func(string) bool) []model.Remote {
	var out []model.Remote
	for _, r := range remotes {
		if forge.Recognized(r) && allows(r.Name) {
			out = append(out, r)
		}
	}
	return out
}

func (f *FolderManager) ProviderRemotes() []model.Remote {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.provider)
}

func (f *FolderManager) GitRemotes() []model.Remote {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.remotes)
}

// Authenticated reports whether the folder's forge CLI has a usable login.
// False when the folder has no recognized provider remote.
func (f *FolderManager) Authenticated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fg != nil && f.authed
}

// HasProviderRemote reports whether any recognized provider hosts one of the
// folder's remotes.
func (f *FolderManager) HasProviderRemote() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fg != nil
}

// PullRequests loads one page of results for a query through the folder's
// forge.
func (f *FolderManager) PullRequests(ctx context.Context, q model.Query, page int) ([]model.PullRequest, bool, error) {
	f.mu.Lock()
	fg := f.fg
	f.mu.Unlock()
	if fg == nil {
		return nil, false, nil
	}
	return fg.ListPRs(ctx, f.folder.Path, q.Query, page, f.store.PageSize())
}

func (f *FolderManager) OnDidChange(fn func()) tree.Disposable {
	return f.listeners.add(fn)
}
