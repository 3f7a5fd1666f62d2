package tree

import (
	"context"
	"sync"

	"arbor/internal/model"
)

// Setting keys whose changes invalidate the whole tree.
const (
	SettingRemotes        = "pullRequests.remotes"
	SettingQueries        = "pullRequests.queries"
	SettingFileListLayout = "pullRequests.fileListLayout"
)

// Controller is the top-level orchestrator. It implements the host-facing
// GetTreeItem/GetChildren/GetParent contract, wires data-source and
// configuration change events into the notifier, and owns the generation
// tracker so a full-tree refresh never leaks subscriptions.
//
// A Controller may be built before a data-source manager exists; until
// Initialize it renders only folder/auth placeholders.
type Controller struct {
	settings   Settings
	view       View
	telemetry  Telemetry
	classifier *EnvClassifier

	notifier *Notifier
	tracker  *GenerationTracker
	resolver *RootStateResolver

	openFolders []model.Folder

	mu   sync.Mutex
	mgr  Manager
	subs []Disposable // manager-level subscriptions, released on Close
}

func NewController(settings Settings, view View, telemetry Telemetry, classifier *EnvClassifier, openFolders []model.Folder) *Controller {
	return &Controller{
		settings:    settings,
		view:        view,
		telemetry:   telemetry,
		classifier:  classifier,
		notifier:    &Notifier{},
		tracker:     &GenerationTracker{},
		resolver:    NewRootStateResolver(settings, view, telemetry, classifier),
		openFolders: openFolders,
	}
}

// Initialize attaches the data-source manager, subscribes to its change
// events and each folder's change events, and triggers the first resolution
// pass. Attaching twice is a programming error and panics.
func (c *Controller) Initialize(mgr Manager) {
	c.mu.Lock()
	if c.mgr != nil {
		c.mu.Unlock()
		panic("tree: Controller.Initialize called twice")
	}
	c.mgr = mgr
	c.subs = append(c.subs, mgr.OnDidChange(func() { c.notifier.Fire(nil) }))
	for _, f := range mgr.Folders() {
		c.subs = append(c.subs, f.OnDidChange(func() { c.notifier.Fire(nil) }))
	}
	c.mu.Unlock()

	c.notifier.Fire(nil)
}

// OnDidChangeTreeData registers the host's redraw handler. A nil node means
// re-resolve from the root; a non-nil node scopes the redraw to that subtree.
func (c *Controller) OnDidChangeTreeData(fn func(Node)) Disposable {
	return c.notifier.Subscribe(fn)
}

// HandleSettingChange translates a configuration change into a whole-tree
// refresh when the key is one the tree renders from.
func (c *Controller) HandleSettingChange(key string) {
	switch key {
	case SettingRemotes, SettingQueries, SettingFileListLayout:
		c.notifier.Fire(nil)
	}
}

// Refresh invalidates the whole tree.
func (c *Controller) Refresh() { c.notifier.Fire(nil) }

// RefreshNode invalidates a single node and its descendants; root resolution
// is skipped.
func (c *Controller) RefreshNode(n Node) { c.notifier.Fire(n) }

// GetTreeItem returns the displayable representation of a node.
func (c *Controller) GetTreeItem(n Node) Item { return n.TreeItem() }

// GetParent returns the parent reference of a node.
func (c *Controller) GetParent(n Node) Node { return n.Parent() }

// GetChildren resolves the root-level node set when n is nil, otherwise
// delegates to the node after reconfirming that some folder still has a
// remote.
func (c *Controller) GetChildren(ctx context.Context, n Node) ([]Node, error) {
	if n == nil {
		return c.resolveRoots(), nil
	}

	c.mu.Lock()
	mgr := c.mgr
	c.mu.Unlock()

	// Remotes can disappear between the root pass and a deep expansion; a
	// remote-less workspace is empty at any depth.
	if mgr != nil && !anyGitRemote(mgr.Folders()) {
		return []Node{NewPlaceholder(Empty)}, nil
	}
	return n.Children(ctx)
}

// resolveRoots runs one root resolution pass and installs its generation.
// Passes are not mutually exclusive: a pass that loses the race has its
// subscriptions disposed by the tracker instead of installed.
func (c *Controller) resolveRoots() []Node {
	gen := c.tracker.Next()

	c.mu.Lock()
	mgr := c.mgr
	c.mu.Unlock()

	roots := c.resolver.Resolve(mgr, len(c.openFolders))

	var disposables []Disposable
	for _, root := range roots {
		folder, ok := root.(*WorkspaceFolderNode)
		if !ok {
			continue
		}
		node := root
		disposables = append(disposables, folder.Manager().OnDidChange(func() {
			c.notifier.Fire(node)
		}))
	}
	c.tracker.Install(gen, disposables)

	if c.telemetry != nil {
		c.telemetry.Emit("tree.resolve", map[string]any{
			"generation": gen,
			"roots":      len(roots),
		})
	}
	return roots
}

// Close releases every live subscription: the manager-level ones and the
// currently installed generation.
func (c *Controller) Close() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	disposeAll(subs)
	c.tracker.Close()
}
