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

type gitHub struct{}

func (g *gitHub) Kind() string { return "github" }

// ghPR mirrors the fields we care about from gh's JSON output.
type ghPR struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Author struct {
		Login string `json:"login"`
	} `json:"author"`
	State       string `json:"state"` // "OPEN", "MERGED", "CLOSED"
	URL         string `json:"url"`
	IsDraft     bool   `json:"isDraft"`
	BaseRefName string `json:"baseRefName"`
	HeadRefName string `json:"headRefName"`
	// StatusCheckRollup summarises all CI checks.
	StatusCheckRollup string `json:"statusCheckRollup"` // "SUCCESS", "FAILURE", "PENDING", ""
	// ReviewDecision is the overall review state.
	ReviewDecision string `json:"reviewDecision"` // "APPROVED", "CHANGES_REQUESTED", "REVIEW_REQUIRED", ""
}

func (g *gitHub) Authenticated(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "gh", "auth", "status")
	return cmd.Run() == nil
}

func (g *gitHub) ListPRs(ctx context.Context, dir, query string, page, perPage int) ([]model.PullRequest, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	// gh has no page flag; fetch up through the requested page plus one row
	// so hasMore can be decided, then slice the page out.
	limit := page*perPage + 1
	cmd := exec.CommandContext(ctx,
		"gh", "pr", "list",
		"--search", query,
		"--limit", strconv.Itoa(limit),
		"--json", "number,title,author,state,url,isDraft,baseRefName,headRefName,statusCheckRollup,reviewDecision",
	)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, false, execError("gh pr list", err)
	}

	all, err := parseGHList(out)
	if err != nil {
		return nil, false, fmt.Errorf("gh pr list: %w", err)
	}

	start := (page - 1) * perPage
	if start >= len(all) {
		return nil, false, nil
	}
	end := start + perPage
	hasMore := len(all) > end
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], hasMore, nil
}

func parseGHList(out []byte) ([]model.PullRequest, error) {
	var prs []ghPR
	if err := json.Unmarshal(out, &prs); err != nil {
		return nil, err
	}
	result := make([]model.PullRequest, len(prs))
	for i, p := range prs {
		result[i] = model.PullRequest{
			Number:         p.Number,
			Title:          p.Title,
			Author:         p.Author.Login,
			WebURL:         p.URL,
			State:          ghState(p.State),
			BaseBranch:     p.BaseRefName,
			HeadBranch:     p.HeadRefName,
			Draft:          p.IsDraft,
			PipelineStatus: ghCIStatus(p.StatusCheckRollup),
			HasUnresolved:  p.ReviewDecision == "CHANGES_REQUESTED" || p.ReviewDecision == "REVIEW_REQUIRED",
			Forge:          "github",
		}
	}
	return result, nil
}

// ghState maps GitHub PR state strings to our unified model.
func ghState(s string) string {
	switch s {
	case "OPEN":
		return "open"
	case "MERGED":
		return "merged"
	case "CLOSED":
		return "closed"
	default:
		return s
	}
}

// ghCIStatus maps GitHub's statusCheckRollup to our pipeline status strings.
func ghCIStatus(s string) string {
	switch s {
	case "SUCCESS":
		return "success"
	case "FAILURE", "ERROR":
		return "failed"
	case "PENDING", "EXPECTED", "STALE":
		return "pending"
	case "":
		return ""
	default:
		return "pending"
	}
}
