package tree

import (
	"context"
	"fmt"
	"sync"

	"arbor/internal/model"
)

// allOpenQuery is the built-in category present regardless of configured
// queries.
var allOpenQuery = model.Query{Label: "All Open", Query: "is:open"}

// CategoryNode groups one folder's pull requests under a labelled query. Its
// children are loaded page by page: expanding the node loads the first page,
// and the load-more command sets fetchNextPage before firing a node-granular
// refresh, which makes the next Children call append one more page.
type CategoryNode struct {
	parent    Node
	folder    FolderManager
	query     model.Query
	view      View
	telemetry Telemetry

	mu            sync.Mutex
	fetchNextPage bool
	page          int
	prs           []model.PullRequest
	hasMore       bool
}

// NewCategoryNode builds a category under parent (nil when the folder is
// rendered flat).
func NewCategoryNode(parent Node, folder FolderManager, query model.Query, view View, telemetry Telemetry) *CategoryNode {
	return &CategoryNode{parent: parent, folder: folder, query: query, view: view, telemetry: telemetry}
}

// CategoriesFor builds the category nodes for one folder: every configured
// query in configuration order, then the built-in "All Open".
func CategoriesFor(parent Node, folder FolderManager, settings Settings, view View, telemetry Telemetry) []Node {
	queries := settings.Queries()
	nodes := make([]Node, 0, len(queries)+1)
	for _, q := range queries {
		nodes = append(nodes, NewCategoryNode(parent, folder, q, view, telemetry))
	}
	nodes = append(nodes, NewCategoryNode(parent, folder, allOpenQuery, view, telemetry))
	return nodes
}

// MarkFetchNextPage arms the node so its next Children call fetches one more
// page instead of starting over. Set by the load-more command binding.
func (n *CategoryNode) MarkFetchNextPage() {
	n.mu.Lock()
	n.fetchNextPage = true
	n.mu.Unlock()
}

func (n *CategoryNode) Query() model.Query { return n.query }

func (n *CategoryNode) Kind() NodeKind { return KindCategory }

func (n *CategoryNode) TreeItem() Item {
	n.mu.Lock()
	loaded := len(n.prs)
	hasMore := n.hasMore
	n.mu.Unlock()

	var desc string
	switch {
	case loaded > 0 && hasMore:
		desc = fmt.Sprintf("%d+", loaded)
	case loaded > 0:
		desc = fmt.Sprintf("%d", loaded)
	}
	return Item{
		Label:       n.query.Label,
		Description: desc,
		Tooltip:     n.query.Query,
		Collapsible: Collapsed,
		Context:     "category",
	}
}

func (n *CategoryNode) Children(ctx context.Context) ([]Node, error) {
	n.mu.Lock()
	fetchNext := n.fetchNextPage
	n.fetchNextPage = false
	if fetchNext && n.page > 0 {
		n.page++
	} else {
		n.page = 1
		n.prs = nil
	}
	page := n.page
	n.mu.Unlock()

	prs, hasMore, err := n.folder.PullRequests(ctx, n.query, page)
	if err != nil {
		return nil, err
	}

	n.mu.Lock()
	firstNew := len(n.prs)
	n.prs = append(n.prs, prs...)
	n.hasMore = hasMore
	all := n.prs
	n.mu.Unlock()

	children := make([]Node, len(all))
	for i, pr := range all {
		children[i] = NewPullRequestNode(n, pr)
	}

	if n.telemetry != nil {
		n.telemetry.Emit("category.expand", map[string]any{
			"category": n.query.Label,
			"page":     page,
			"count":    len(all),
		})
	}
	// After a load-more, move the selection to the first newly loaded item.
	if fetchNext && n.view != nil && firstNew < len(children) {
		n.view.Reveal(children[firstNew])
	}
	return children, nil
}

func (n *CategoryNode) Parent() Node { return n.parent }
