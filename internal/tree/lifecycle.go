package tree

import "sync"

// GenerationTracker owns the disposable resources attached to the currently
// installed generation of top-level nodes. Install is last-writer-wins: a
// resolution pass that finishes after a newer one has already installed gets
// its resources released immediately instead of leaking them.
type GenerationTracker struct {
	mu        sync.Mutex
	counter   uint64 // last generation number handed out
	installed uint64 // generation currently live
	live      []Disposable
	closed    bool
}

// Next allocates the generation number for a new resolution pass. Numbers are
// strictly increasing for the life of the tracker.
func (t *GenerationTracker) Next() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counter++
	return t.counter
}

// Install replaces the live generation with gen's disposables, releasing the
// previous generation first. If gen is older than (or equal to) the installed
// generation, or the tracker is closed, the incoming disposables are released
// immediately and Install reports false.
func (t *GenerationTracker) Install(gen uint64, disposables []Disposable) bool {
	t.mu.Lock()
	if t.closed || gen <= t.installed {
		t.mu.Unlock()
		disposeAll(disposables)
		return false
	}
	old := t.live
	t.installed = gen
	t.live = disposables
	t.mu.Unlock()

	disposeAll(old)
	return true
}

// Close releases the live generation and rejects all further installs.
func (t *GenerationTracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	old := t.live
	t.live = nil
	t.mu.Unlock()

	disposeAll(old)
}
