package tree

import (
	"context"
	"fmt"

	"arbor/internal/model"
)

// PullRequestNode is a leaf describing a single pull request.
type PullRequestNode struct {
	parent Node
	pr     model.PullRequest
}

func NewPullRequestNode(parent Node, pr model.PullRequest) *PullRequestNode {
	return &PullRequestNode{parent: parent, pr: pr}
}

func (n *PullRequestNode) PullRequest() model.PullRequest { return n.pr }

// URL is the web address opened by the "open in browser" command.
func (n *PullRequestNode) URL() string { return n.pr.WebURL }

func (n *PullRequestNode) Kind() NodeKind { return KindPullRequest }

func (n *PullRequestNode) TreeItem() Item {
	desc := n.pr.State
	if n.pr.Draft {
		desc = "draft"
	}
	if n.pr.PipelineStatus != "" {
		desc += " · " + n.pr.PipelineStatus
	}
	return Item{
		Label:       fmt.Sprintf("#%d %s", n.pr.Number, n.pr.Title),
		Description: desc,
		Tooltip:     fmt.Sprintf("%s by %s", n.pr.WebURL, n.pr.Author),
		Collapsible: NotCollapsible,
		Context:     "pullRequest",
	}
}

func (n *PullRequestNode) Children(ctx context.Context) ([]Node, error) { return nil, nil }

func (n *PullRequestNode) Parent() Node { return n.parent }
