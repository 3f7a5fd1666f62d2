package tui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"arbor/internal/tree"
)

// -- state --------------------------------------------------------------------

type appState int

const (
	stateNormal appState = iota
	statePicker
)

// -- styles -------------------------------------------------------------------

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2)

	dimStyle    = lipgloss.NewStyle().Faint(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	folderStyle = lipgloss.NewStyle().Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Faint(true).
			PaddingLeft(2)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(1, 3).
			Width(58)
)

// -- spinner ------------------------------------------------------------------

var spinnerFrames = []string{"|", "/", "-", "\\"}

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// -- messages -----------------------------------------------------------------

type treeChangedMsg struct {
	node tree.Node // nil means the whole tree
}

type rootsLoadedMsg struct {
	roots []tree.Node
	err   error
}

type childrenLoadedMsg struct {
	parent tree.Node
	kids   []tree.Node
	err    error
}

type revealMsg struct {
	node tree.Node
}

type rescanDoneMsg struct{}

type signedOutMsg struct {
	err error
}

// -- picker items -------------------------------------------------------------

type pickerAction int

const (
	actionOpenRemotesSetting pickerAction = iota
	actionOpenQueriesSetting
	actionSignOut
)

type pickerItem struct {
	action pickerAction
	title  string
	desc   string
}

func (i pickerItem) Title() string       { return i.title }
func (i pickerItem) Description() string { return i.desc }
func (i pickerItem) FilterValue() string { return i.title }

// -- model --------------------------------------------------------------------

type row struct {
	node  tree.Node
	depth int
}

// Options carry the host-side collaborators the app shells out to.
type Options struct {
	// ConfigPath is opened by the settings picker actions.
	ConfigPath string
	// Rescan re-reads repository state; bound to the refresh key.
	Rescan func()
}

type Model struct {
	ctrl *tree.Controller
	opts Options

	events chan tree.Node
	sub    tree.Disposable

	roots    []tree.Node
	children map[tree.Node][]tree.Node
	expanded map[tree.Node]bool
	loading  map[tree.Node]bool
	rows     []row
	cursor   int

	width        int
	height       int
	loadingRoot  bool
	statusErr    string
	spinnerFrame int

	state  appState
	picker list.Model
}

func New(ctrl *tree.Controller, opts Options) Model {
	events := make(chan tree.Node, 64)
	sub := ctrl.OnDidChangeTreeData(func(n tree.Node) {
		events <- n
	})

	items := []list.Item{
		pickerItem{actionOpenRemotesSetting, "Configure remotes", "Edit the remotes allow-list"},
		pickerItem{actionOpenQueriesSetting, "Configure queries", "Edit the query categories"},
		pickerItem{actionSignOut, "Sign out", "Log out of the forge CLI"},
	}
	p := list.New(items, list.NewDefaultDelegate(), 50, 12)
	p.Title = "Settings"
	p.SetShowStatusBar(false)
	p.SetFilteringEnabled(false)
	p.SetShowHelp(false)
	p.Styles.Title = titleStyle

	return Model{
		ctrl:        ctrl,
		opts:        opts,
		events:      events,
		sub:         sub,
		children:    map[tree.Node][]tree.Node{},
		expanded:    map[tree.Node]bool{},
		loading:     map[tree.Node]bool{},
		loadingRoot: true,
		picker:      p,
	}
}

// -- commands -----------------------------------------------------------------

func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		n, ok := <-m.events
		if !ok {
			return nil
		}
		return treeChangedMsg{node: n}
	}
}

func loadRootsCmd(ctrl *tree.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		roots, err := ctrl.GetChildren(ctx, nil)
		return rootsLoadedMsg{roots: roots, err: err}
	}
}

func loadChildrenCmd(ctrl *tree.Controller, node tree.Node) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		kids, err := ctrl.GetChildren(ctx, node)
		return childrenLoadedMsg{parent: node, kids: kids, err: err}
	}
}

func rescanCmd(rescan func()) tea.Cmd {
	return func() tea.Msg {
		rescan()
		return rescanDoneMsg{}
	}
}

func openURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			cmd = exec.Command("xdg-open", url)
		}
		cmd.Run()
		return nil
	}
}

func signOutCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := exec.CommandContext(ctx, "gh", "auth", "logout").Run()
		return signedOutMsg{err: err}
	}
}

// -- tea.Model ----------------------------------------------------------------

func (m Model) Init() tea.Cmd {
	return tea.Batch(loadRootsCmd(m.ctrl), m.waitForChange(), tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
		return m, tickCmd()

	case treeChangedMsg:
		if msg.node == nil {
			m.loadingRoot = true
			return m, tea.Batch(loadRootsCmd(m.ctrl), m.waitForChange())
		}
		// Subtree invalidation: drop the cached children and reload when the
		// node is on screen expanded.
		delete(m.children, msg.node)
		if m.expanded[msg.node] {
			m.loading[msg.node] = true
			m.buildRows()
			return m, tea.Batch(loadChildrenCmd(m.ctrl, msg.node), m.waitForChange())
		}
		m.buildRows()
		return m, m.waitForChange()

	case rootsLoadedMsg:
		m.loadingRoot = false
		if msg.err != nil {
			m.statusErr = msg.err.Error()
			return m, nil
		}
		m.statusErr = ""
		m.roots = msg.roots
		m.children = map[tree.Node][]tree.Node{}
		m.expanded = map[tree.Node]bool{}
		m.loading = map[tree.Node]bool{}

		// Folder nodes start expanded; load their categories right away.
		var cmds []tea.Cmd
		for _, n := range m.roots {
			if n.TreeItem().Collapsible == tree.Expanded {
				m.expanded[n] = true
				m.loading[n] = true
				cmds = append(cmds, loadChildrenCmd(m.ctrl, n))
			}
		}
		m.buildRows()
		return m, tea.Batch(cmds...)

	case childrenLoadedMsg:
		delete(m.loading, msg.parent)
		if msg.err != nil {
			m.statusErr = msg.err.Error()
			m.buildRows()
			return m, nil
		}
		m.statusErr = ""
		m.children[msg.parent] = msg.kids
		m.expanded[msg.parent] = true
		m.buildRows()
		return m, nil

	case revealMsg:
		for i, r := range m.rows {
			if r.node == msg.node {
				m.cursor = i
				break
			}
		}
		return m, nil

	case rescanDoneMsg:
		return m, nil

	case signedOutMsg:
		if msg.err != nil {
			m.statusErr = fmt.Sprintf("sign out: %v", msg.err)
			return m, nil
		}
		if m.opts.Rescan != nil {
			return m, rescanCmd(m.opts.Rescan)
		}
		m.ctrl.Refresh()
		return m, nil
	}

	switch m.state {
	case statePicker:
		return m.updatePicker(msg)
	default:
		return m.updateNormal(msg)
	}
}

func (m Model) updateNormal(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		m.sub.Dispose()
		m.ctrl.Close()
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil

	case "r":
		if m.opts.Rescan != nil {
			return m, rescanCmd(m.opts.Rescan)
		}
		m.ctrl.Refresh()
		return m, nil

	case "enter":
		return m.toggleSelected()

	case "m":
		node := m.selectedNode()
		if cat, ok := node.(*tree.CategoryNode); ok {
			cat.MarkFetchNextPage()
			m.ctrl.RefreshNode(cat)
		}
		return m, nil

	case "o":
		if pr, ok := m.selectedNode().(*tree.PullRequestNode); ok && pr.URL() != "" {
			return m, openURLCmd(pr.URL())
		}
		return m, nil

	case "s":
		m.state = statePicker
		return m, nil
	}
	return m, nil
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	node := m.selectedNode()
	if node == nil || node.TreeItem().Collapsible == tree.NotCollapsible {
		return m, nil
	}
	if m.expanded[node] {
		m.expanded[node] = false
		m.buildRows()
		return m, nil
	}
	if _, ok := m.children[node]; ok {
		m.expanded[node] = true
		m.buildRows()
		return m, nil
	}
	m.loading[node] = true
	return m, loadChildrenCmd(m.ctrl, node)
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.state = stateNormal
			return m, nil
		case "enter":
			item, ok := m.picker.SelectedItem().(pickerItem)
			if !ok {
				return m, nil
			}
			m.state = stateNormal
			switch item.action {
			case actionOpenRemotesSetting, actionOpenQueriesSetting:
				if m.opts.ConfigPath != "" {
					return m, openURLCmd(m.opts.ConfigPath)
				}
				return m, nil
			case actionSignOut:
				return m, signOutCmd()
			}
		}
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// -- rows ---------------------------------------------------------------------

// buildRows flattens the visible part of the tree in display order.
func (m *Model) buildRows() {
	m.rows = m.rows[:0]
	for _, n := range m.roots {
		m.appendRows(n, 0)
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) appendRows(n tree.Node, depth int) {
	m.rows = append(m.rows, row{node: n, depth: depth})
	if !m.expanded[n] {
		return
	}
	for _, c := range m.children[n] {
		m.appendRows(c, depth+1)
	}
}

func (m Model) selectedNode() tree.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].node
}

// -- view ---------------------------------------------------------------------

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Pull Requests") + "\n\n")

	if m.loadingRoot {
		b.WriteString(dimStyle.Render("  " + spinnerFrames[m.spinnerFrame] + " Loading…"))
		return b.String()
	}

	if len(m.rows) == 0 {
		b.WriteString(dimStyle.Render("  Nothing to show"))
	}

	visible := m.height - 6
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(i) + "\n")
	}

	b.WriteString("\n" + m.renderFooter())

	base := b.String()
	if m.state == statePicker {
		return m.renderPickerOver(base)
	}
	return base
}

func (m Model) renderRow(i int) string {
	r := m.rows[i]
	item := r.node.TreeItem()

	indent := strings.Repeat("  ", r.depth)

	var marker string
	switch {
	case m.loading[r.node]:
		marker = spinnerFrames[m.spinnerFrame] + " "
	case item.Collapsible == tree.NotCollapsible:
		marker = "  "
	case m.expanded[r.node]:
		marker = "▾ "
	default:
		marker = "▸ "
	}

	label := item.Label
	switch r.node.Kind() {
	case tree.KindPlaceholder:
		label = dimStyle.Render(label)
	case tree.KindWorkspaceFolder:
		label = folderStyle.Render(label)
	case tree.KindPullRequest:
		label = m.renderPRLabel(r.node, label)
	}

	line := indent + marker + label
	if item.Description != "" {
		line += " " + dimStyle.Render(item.Description)
	}

	prefix := "  "
	if i == m.cursor {
		prefix = selectedStyle.Render("> ")
		line = selectedStyle.Render(indent+marker+item.Label) + " " + dimStyle.Render(item.Description)
	}
	return prefix + line
}

func (m Model) renderPRLabel(n tree.Node, label string) string {
	pr, ok := n.(*tree.PullRequestNode)
	if !ok {
		return label
	}
	switch pr.PullRequest().PipelineStatus {
	case "failed":
		return errStyle.Render(label)
	case "success":
		return okStyle.Render(label)
	case "running", "pending":
		return warnStyle.Render(label)
	}
	return label
}

func (m Model) renderFooter() string {
	sep := dimStyle.Render(strings.Repeat("─", m.width))

	help := "↑/↓ navigate   Enter expand   m load more   o open   r refresh   s settings   q quit"
	if m.state == statePicker {
		help = "Enter select   Esc cancel"
	}

	out := sep + "\n" + helpStyle.Render(help)
	if m.statusErr != "" {
		out += "\n" + errStyle.Render("  "+m.statusErr)
	}
	return out
}

func (m Model) renderPickerOver(base string) string {
	modal := modalStyle.Render(m.picker.View())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceBackground(lipgloss.Color("0")),
	)
}
