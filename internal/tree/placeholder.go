package tree

import "context"

// PlaceholderReason is the closed set of non-nominal root states rendered as
// informational nodes.
type PlaceholderReason int

const (
	NoOpenFolder PlaceholderReason = iota
	NoGitRepositories
	Initializing
	NeedsAuthentication
	NoRemotes
	ConfigureRemotes
	NoMatchingRemotes
	Empty
)

func (r PlaceholderReason) String() string {
	switch r {
	case NoOpenFolder:
		return "noOpenFolder"
	case NoGitRepositories:
		return "noGitRepositories"
	case Initializing:
		return "initializing"
	case NeedsAuthentication:
		return "needsAuthentication"
	case NoRemotes:
		return "noRemotes"
	case ConfigureRemotes:
		return "configureRemotes"
	case NoMatchingRemotes:
		return "noMatchingRemotes"
	case Empty:
		return "empty"
	}
	return "unknown"
}

func (r PlaceholderReason) label() string {
	switch r {
	case NoOpenFolder:
		return "You have not yet opened a folder"
	case NoGitRepositories:
		return "No git repositories found"
	case Initializing:
		return "Loading…"
	case NeedsAuthentication:
		return "Sign in to view pull requests"
	case NoRemotes:
		return "No remotes configured"
	case ConfigureRemotes:
		return "Configure remotes…"
	case NoMatchingRemotes:
		return "No remotes match the configured allow-list"
	case Empty:
		return "0 pull requests in this workspace"
	}
	return "unknown"
}

// PlaceholderNode is a childless, parentless root node describing why real
// data cannot be shown. Instances are created fresh on every resolution pass
// and never mutated.
type PlaceholderNode struct {
	reason PlaceholderReason
}

// NewPlaceholder constructs a placeholder for the given reason.
func NewPlaceholder(reason PlaceholderReason) *PlaceholderNode {
	return &PlaceholderNode{reason: reason}
}

func (n *PlaceholderNode) Reason() PlaceholderReason { return n.reason }

func (n *PlaceholderNode) Kind() NodeKind { return KindPlaceholder }

func (n *PlaceholderNode) TreeItem() Item {
	return Item{
		Label:       n.reason.label(),
		Collapsible: NotCollapsible,
		Context:     "placeholder:" + n.reason.String(),
	}
}

func (n *PlaceholderNode) Children(ctx context.Context) ([]Node, error) { return nil, nil }

func (n *PlaceholderNode) Parent() Node { return nil }
