package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"arbor/internal/model"
)

type gitLab struct{}

func (g *gitLab) Kind() string { return "gitlab" }

// glabMR mirrors the fields we care about from glab's JSON output.
type glabMR struct {
	IID    int    `json:"iid"`
	Title  string `json:"title"`
	State  string `json:"state"`
	WebURL string `json:"web_url"`
	Draft  bool   `json:"draft"`
	Author *struct {
		Username string `json:"username"`
	} `json:"author"`
	SourceBranch string `json:"source_branch"`
	TargetBranch string `json:"target_branch"`
	Pipeline     *struct {
		Status string `json:"status"`
	} `json:"pipeline"`
	BlockingDiscussionsResolved *bool `json:"blocking_discussions_resolved"`
}

func (g *gitLab) Authenticated(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "glab", "auth", "status")
	return cmd.Run() == nil
}

func (g *gitLab) ListPRs(ctx context.Context, dir, query string, page, perPage int) ([]model.PullRequest, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx,
		"glab", "mr", "list",
		"--search", query,
		"--page", strconv.Itoa(page),
		"--per-page", strconv.Itoa(perPage),
		"-F", "json",
	)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, false, execError("glab mr list", err)
	}

	prs, err := parseGlabList(out)
	if err != nil {
		return nil, false, fmt.Errorf("glab mr list: %w", err)
	}
	// A full page means another may exist; glab's JSON carries no total.
	return prs, len(prs) == perPage, nil
}

func parseGlabList(out []byte) ([]model.PullRequest, error) {
	var mrs []glabMR
	if err := json.Unmarshal(out, &mrs); err != nil {
		return nil, err
	}
	result := make([]model.PullRequest, len(mrs))
	for i, m := range mrs {
		pr := model.PullRequest{
			Number:     m.IID,
			Title:      m.Title,
			WebURL:     m.WebURL,
			State:      normaliseState(m.State),
			BaseBranch: m.TargetBranch,
			HeadBranch: m.SourceBranch,
			Draft:      m.Draft,
			Forge:      "gitlab",
		}
		if m.Author != nil {
			pr.Author = m.Author.Username
		}
		if m.Pipeline != nil {
			pr.PipelineStatus = m.Pipeline.Status
		}
		if m.BlockingDiscussionsResolved != nil {
			pr.HasUnresolved = !*m.BlockingDiscussionsResolved
		}
		result[i] = pr
	}
	return result, nil
}

// normaliseState maps GitLab state strings to our unified model.
func normaliseState(s string) string {
	switch s {
	case "opened":
		return "open"
	default:
		return s // "merged", "closed" are already canonical
	}
}
