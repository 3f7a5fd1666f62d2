package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"arbor/internal/tree"
)

// ViewHandle is the shared view handle nodes use for item selection. It is
// created before the bubbletea program exists and attached once the program
// is running; Reveal calls before attachment are dropped.
type ViewHandle struct {
	mu sync.Mutex
	p  *tea.Program
}

func NewViewHandle() *ViewHandle { return &ViewHandle{} }

// Attach binds the handle to a running program.
func (v *ViewHandle) Attach(p *tea.Program) {
	v.mu.Lock()
	v.p = p
	v.mu.Unlock()
}

// Reveal moves the selection to the given node.
func (v *ViewHandle) Reveal(n tree.Node) {
	v.mu.Lock()
	p := v.p
	v.mu.Unlock()
	if p != nil {
		p.Send(revealMsg{node: n})
	}
}
