package model

// PullRequest holds pull/merge request metadata fetched via gh or glab.
type PullRequest struct {
	Number         int    // GitLab IID or GitHub PR number
	Title          string
	Author         string
	WebURL         string
	State          string // "open", "merged", "closed"
	BaseBranch     string
	HeadBranch     string
	PipelineStatus string // "success", "failed", "running", "pending", "canceled", etc.
	HasUnresolved  bool   // true if blocking discussions / review requests unresolved
	Draft          bool
	Forge          string // "gitlab" | "github"
}

// Remote is one configured git remote of a repository.
type Remote struct {
	Name string // e.g. "origin"
	URL  string // fetch URL
}

// Folder identifies one open workspace folder.
type Folder struct {
	Name string // display name, usually the directory basename
	Path string // absolute path
}

// Query is one labelled pull-request search, either built in or taken from
// the queries setting.
type Query struct {
	Label string `yaml:"label"`
	Query string `yaml:"query"`
}
