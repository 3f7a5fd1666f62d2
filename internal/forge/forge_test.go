package forge

import (
	"testing"

	"arbor/internal/model"
)

func TestForgeFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		url  string
		want string // expected Kind, "" for unrecognized
	}{
		{"https://github.com/acme/widgets.git", "github"},
		{"git@github.com:acme/widgets.git", "github"},
		{"https://gitlab.com/acme/widgets.git", "gitlab"},
		{"git@gitlab.example.org:acme/widgets.git", "gitlab"},
		{"https://bitbucket.org/acme/widgets.git", ""},
		{"", ""},
	}
	for _, tc := range cases {
		f := ForgeFor(model.Remote{Name: "origin", URL: tc.url})
		switch {
		case tc.want == "" && f != nil:
			t.Errorf("ForgeFor(%q): got %s, want nil", tc.url, f.Kind())
		case tc.want != "" && f == nil:
			t.Errorf("ForgeFor(%q): got nil, want %s", tc.url, tc.want)
		case tc.want != "" && f.Kind() != tc.want:
			t.Errorf("ForgeFor(%q): got %s, want %s", tc.url, f.Kind(), tc.want)
		}
	}
}

func TestParseGHList(t *testing.T) {
	t.Parallel()

	raw := []byte(`[
		{
			"number": 42,
			"title": "Add widget cache",
			"author": {"login": "octocat"},
			"state": "OPEN",
			"url": "https://github.com/acme/widgets/pull/42",
			"isDraft": true,
			"baseRefName": "main",
			"headRefName": "feature/cache",
			"statusCheckRollup": "FAILURE",
			"reviewDecision": "CHANGES_REQUESTED"
		},
		{
			"number": 40,
			"title": "Fix typo",
			"author": {"login": "hubot"},
			"state": "MERGED",
			"url": "https://github.com/acme/widgets/pull/40"
		}
	]`)

	prs, err := parseGHList(raw)
	if err != nil {
		t.Fatalf("parseGHList: %v", err)
	}
	if len(prs) != 2 {
		t.Fatalf("prs: got %d, want 2", len(prs))
	}

	got := prs[0]
	want := model.PullRequest{
		Number:         42,
		Title:          "Add widget cache",
		Author:         "octocat",
		WebURL:         "https://github.com/acme/widgets/pull/42",
		State:          "open",
		BaseBranch:     "main",
		HeadBranch:     "feature/cache",
		PipelineStatus: "failed",
		HasUnresolved:  true,
		Draft:          true,
		Forge:          "github",
	}
	if got != want {
		t.Errorf("prs[0]:\n got %+v\nwant %+v", got, want)
	}
	if prs[1].State != "merged" || prs[1].PipelineStatus != "" {
		t.Errorf("prs[1]: got state %q pipeline %q, want merged and empty", prs[1].State, prs[1].PipelineStatus)
	}
}

func TestParseGlabList(t *testing.T) {
	t.Parallel()

	raw := []byte(`[
		{
			"iid": 7,
			"title": "Retry payments",
			"state": "opened",
			"web_url": "https://gitlab.com/acme/widgets/-/merge_requests/7",
			"draft": false,
			"author": {"username": "mlindqvist"},
			"source_branch": "payments-retry",
			"target_branch": "main",
			"pipeline": {"status": "running"},
			"blocking_discussions_resolved": false
		}
	]`)

	prs, err := parseGlabList(raw)
	if err != nil {
		t.Fatalf("parseGlabList: %v", err)
	}
	if len(prs) != 1 {
		t.Fatalf("prs: got %d, want 1", len(prs))
	}

	got := prs[0]
	if got.State != "open" {
		t.Errorf("state: got %q, want %q", got.State, "open")
	}
	if got.Author != "mlindqvist" {
		t.Errorf("author: got %q, want %q", got.Author, "mlindqvist")
	}
	if got.PipelineStatus != "running" {
		t.Errorf("pipeline: got %q, want %q", got.PipelineStatus, "running")
	}
	if !got.HasUnresolved {
		t.Error("HasUnresolved: got false, want true")
	}
	if got.BaseBranch != "main" || got.HeadBranch != "payments-retry" {
		t.Errorf("branches: got (%q, %q), want (main, payments-retry)", got.BaseBranch, got.HeadBranch)
	}
}

func TestGHCIStatusMapping(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"SUCCESS":  "success",
		"FAILURE":  "failed",
		"ERROR":    "failed",
		"PENDING":  "pending",
		"EXPECTED": "pending",
		"STALE":    "pending",
		"":         "",
		"UNKNOWN":  "pending",
	}
	for in, want := range cases {
		if got := ghCIStatus(in); got != want {
			t.Errorf("ghCIStatus(%q): got %q, want %q", in, got, want)
		}
	}
}
