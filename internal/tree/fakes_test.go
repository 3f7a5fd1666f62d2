package tree

import (
	"context"
	"sync"

	"arbor/internal/model"
)

// fakeFolder is an in-memory FolderManager.
type fakeFolder struct {
	folder    model.Folder
	provider  []model.Remote
	git       []model.Remote
	pages     map[int][]model.PullRequest
	morePages map[int]bool
	prErr     error

	mu        sync.Mutex
	listeners []func()
	prCalls   int
}

func (f *fakeFolder) Folder() model.Folder            { return f.folder }
func (f *fakeFolder) ProviderRemotes() []model.Remote { return f.provider }
func (f *fakeFolder) GitRemotes() []model.Remote      { return f.git }

func (f *fakeFolder) PullRequests(ctx context.Context, q model.Query, page int) ([]model.PullRequest, bool, error) {
	f.mu.Lock()
	f.prCalls++
	f.mu.Unlock()
	if f.prErr != nil {
		return nil, false, f.prErr
	}
	return f.pages[page], f.morePages[page], nil
}

func (f *fakeFolder) OnDidChange(fn func()) Disposable {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	idx := len(f.listeners) - 1
	f.mu.Unlock()
	return DisposeFunc(func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if idx < len(f.listeners) {
			f.listeners[idx] = nil
		}
	})
}

func (f *fakeFolder) fireChange() {
	f.mu.Lock()
	listeners := append([]func(){}, f.listeners...)
	f.mu.Unlock()
	for _, fn := range listeners {
		if fn != nil {
			fn()
		}
	}
}

func (f *fakeFolder) liveListeners() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, fn := range f.listeners {
		if fn != nil {
			n++
		}
	}
	return n
}

// fakeManager is an in-memory Manager.
type fakeManager struct {
	state   ManagerState
	folders []FolderManager

	mu        sync.Mutex
	listeners []func()
}

func (m *fakeManager) State() ManagerState      { return m.state }
func (m *fakeManager) Folders() []FolderManager { return m.folders }

func (m *fakeManager) OnDidChange(fn func()) Disposable {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	idx := len(m.listeners) - 1
	m.mu.Unlock()
	return DisposeFunc(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if idx < len(m.listeners) {
			m.listeners[idx] = nil
		}
	})
}

func (m *fakeManager) fireChange() {
	m.mu.Lock()
	listeners := append([]func(){}, m.listeners...)
	m.mu.Unlock()
	for _, fn := range listeners {
		if fn != nil {
			fn()
		}
	}
}

// fakeSettings is a fixed Settings snapshot.
type fakeSettings struct {
	allowList bool
	queries   []model.Query
}

func (s *fakeSettings) RemotesAllowListConfigured() bool { return s.allowList }
func (s *fakeSettings) Queries() []model.Query           { return s.queries }

// fakeView records Reveal calls.
type fakeView struct {
	mu       sync.Mutex
	revealed []Node
}

func (v *fakeView) Reveal(n Node) {
	v.mu.Lock()
	v.revealed = append(v.revealed, n)
	v.mu.Unlock()
}

// fakeTelemetry records emitted events.
type fakeTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (t *fakeTelemetry) Emit(event string, attrs map[string]any) {
	t.mu.Lock()
	t.events = append(t.events, event)
	t.mu.Unlock()
}

// countingDisposable counts how many times it was released.
type countingDisposable struct {
	mu    sync.Mutex
	count int
}

func (d *countingDisposable) Dispose() {
	d.mu.Lock()
	d.count++
	d.mu.Unlock()
}

func (d *countingDisposable) disposed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

func reasonsOf(nodes []Node) []PlaceholderReason {
	var out []PlaceholderReason
	for _, n := range nodes {
		if p, ok := n.(*PlaceholderNode); ok {
			out = append(out, p.Reason())
		}
	}
	return out
}

func testClassifier(val bool) *EnvClassifier {
	return NewEnvClassifier(NewEnvCache(), "example.test", func(ctx context.Context, host string) (string, error) {
		if val {
			return "probe.github.dev", nil
		}
		return "probe.example.com", nil
	})
}
