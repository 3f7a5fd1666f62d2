package tree

import "context"

// WorkspaceFolderNode wraps one folder's categories when the workspace has
// more than one folder. It carries the shared view handle, the telemetry
// sink, and the (possibly still unresolved) environment classification.
type WorkspaceFolderNode struct {
	folder     FolderManager
	settings   Settings
	view       View
	telemetry  Telemetry
	classifier *EnvClassifier
}

func NewWorkspaceFolderNode(folder FolderManager, settings Settings, view View, telemetry Telemetry, classifier *EnvClassifier) *WorkspaceFolderNode {
	return &WorkspaceFolderNode{
		folder:     folder,
		settings:   settings,
		view:       view,
		telemetry:  telemetry,
		classifier: classifier,
	}
}

// Manager returns the folder manager backing this node.
func (n *WorkspaceFolderNode) Manager() FolderManager { return n.folder }

func (n *WorkspaceFolderNode) Kind() NodeKind { return KindWorkspaceFolder }

func (n *WorkspaceFolderNode) TreeItem() Item {
	var desc string
	if remote, ok := n.classifier.Peek(); ok && remote {
		desc = "remote workspace"
	}
	return Item{
		Label:       n.folder.Folder().Name,
		Description: desc,
		Tooltip:     n.folder.Folder().Path,
		Collapsible: Expanded,
		Context:     "workspaceFolder",
	}
}

func (n *WorkspaceFolderNode) Children(ctx context.Context) ([]Node, error) {
	// Warm the environment classification so TreeItem can surface it on the
	// next redraw. A probe failure means "unknown"; the next call retries.
	if _, ok := n.classifier.Peek(); !ok {
		_, _ = n.classifier.Classify(ctx)
	}
	return CategoriesFor(n, n.folder, n.settings, n.view, n.telemetry), nil
}

func (n *WorkspaceFolderNode) Parent() Node { return nil }
