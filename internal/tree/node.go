package tree

import "context"

// NodeKind is the closed set of node variants the tree can contain.
// Consumers switch on it instead of type-asserting.
type NodeKind int

const (
	KindPlaceholder NodeKind = iota
	KindWorkspaceFolder
	KindCategory
	KindPullRequest
)

func (k NodeKind) String() string {
	switch k {
	case KindPlaceholder:
		return "placeholder"
	case KindWorkspaceFolder:
		return "workspaceFolder"
	case KindCategory:
		return "category"
	case KindPullRequest:
		return "pullRequest"
	}
	return "unknown"
}

// CollapsibleState tells the host whether a node can be expanded.
type CollapsibleState int

const (
	NotCollapsible CollapsibleState = iota
	Collapsed
	Expanded
)

// Item is the displayable representation of a node. Producing one must be
// cheap and synchronous.
type Item struct {
	Label       string
	Description string
	Tooltip     string
	Collapsible CollapsibleState
	Context     string // context value consumed by command bindings
}

// Node is the capability contract every tree element satisfies. Children may
// suspend and must be safe to call repeatedly; any caching is the node's own
// concern.
type Node interface {
	Kind() NodeKind
	TreeItem() Item
	Children(ctx context.Context) ([]Node, error)
	Parent() Node
}
