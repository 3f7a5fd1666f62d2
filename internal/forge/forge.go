package forge

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"arbor/internal/model"
)

// Forge abstracts GitLab and GitHub pull-request listing.
type Forge interface {
	Kind() string // "gitlab" | "github"

	// Authenticated reports whether the forge CLI has a usable login.
	Authenticated(ctx context.Context) bool

	// ListPRs returns one page of pull requests matching the query. hasMore
	// reports whether another page exists.
	ListPRs(ctx context.Context, dir, query string, page, perPage int) (prs []model.PullRequest, hasMore bool, err error)
}

// ForgeFor returns the Forge hosting a remote, or nil if the remote's host is
// not a recognized provider.
func ForgeFor(remote model.Remote) Forge {
	url := strings.ToLower(remote.URL)
	switch {
	case strings.Contains(url, "github.com"):
		return &gitHub{}
	case strings.Contains(url, "gitlab"):
		return &gitLab{}
	default:
		return nil
	}
}

// Recognized reports whether a remote is hosted by a recognized provider.
func Recognized(remote model.Remote) bool {
	return ForgeFor(remote) != nil
}

func trimOutput(b []byte) string {
	s := string(b)
	if len(s) > 200 {
		return s[:200] + "…"
	}
	return s
}

// execError surfaces the CLI's stderr when available; raw exit codes tell the
// user nothing.
func execError(op string, err error) error {
	var ee *exec.ExitError
	if errors.As(err, &ee) && len(ee.Stderr) > 0 {
		return fmt.Errorf("%s: %s", op, trimOutput(ee.Stderr))
	}
	return fmt.Errorf("%s: %w", op, err)
}
