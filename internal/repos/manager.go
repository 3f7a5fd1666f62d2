package repos

import (
	"context"
	"log/slog"
	"sync"

	"arbor/internal/config"
	"arbor/internal/model"
	"arbor/internal/tree"
)

// Manager is the data-source collaborator: it owns one FolderManager per
// workspace folder plus the overall repositories/authentication state.
type Manager struct {
	folders []*FolderManager

	mu        sync.Mutex
	state     tree.ManagerState
	listeners listenerSet
}

func NewManager(folders []model.Folder, store *config.Store) *Manager {
	m := &Manager{state: tree.StateInitializing}
	for _, f := range folders {
		m.folders = append(m.folders, NewFolderManager(f, store))
	}
	return m
}

func (m *Manager) State() tree.ManagerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) Folders() []tree.FolderManager {
	out := make([]tree.FolderManager, len(m.folders))
	for i, f := range m.folders {
		out[i] = f
	}
	return out
}

func (m *Manager) OnDidChange(fn func()) tree.Disposable {
	return m.listeners.add(fn)
}

// Start scans every folder concurrently, then leaves Initializing for
// RepositoriesLoaded or NeedsAuthentication.
func (m *Manager) Start(ctx context.Context) {
	var wg sync.WaitGroup
	for _, f := range m.folders {
		wg.Add(1)
		go func(f *FolderManager) {
			defer wg.Done()
			f.Scan(ctx)
		}(f)
	}
	wg.Wait()

	next := decideState(m.folders)
	slog.Info("repositories scanned", "folders", len(m.folders), "state", next)

	m.mu.Lock()
	m.state = next
	m.mu.Unlock()
	m.listeners.notify()
}

// Rescan re-reads every folder and re-derives the state.
func (m *Manager) Rescan(ctx context.Context) { m.Start(ctx) }

// decideState derives the manager state from the scanned folders: when
// provider remotes exist but no forge is logged in, the view must ask for
// authentication instead of showing empty categories.
func decideState(folders []*FolderManager) tree.ManagerState {
	anyProvider := false
	anyAuthed := false
	for _, f := range folders {
		if f.HasProviderRemote() {
			anyProvider = true
		}
		if f.Authenticated() {
			anyAuthed = true
		}
	}
	if anyProvider && !anyAuthed {
		return tree.StateNeedsAuthentication
	}
	return tree.StateRepositoriesLoaded
}

// listenerSet is a minimal observer registry shared by Manager and
// FolderManager.
type listenerSet struct {
	mu   sync.Mutex
	subs map[uint64]func()
	next uint64
}

func (l *listenerSet) add(fn func()) tree.Disposable {
	l.mu.Lock()
	if l.subs == nil {
		l.subs = make(map[uint64]func())
	}
	l.next++
	id := l.next
	l.subs[id] = fn
	l.mu.Unlock()
	return tree.DisposeFunc(func() {
		l.mu.Lock()
		delete(l.subs, id)
		l.mu.Unlock()
	})
}

func (l *listenerSet) notify() {
	l.mu.Lock()
	fns := make([]func(), 0, len(l.subs))
	for _, fn := range l.subs {
		fns = append(fns, fn)
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
