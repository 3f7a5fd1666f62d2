package git

import (
	"fmt"
	"os/exec"
	"strings"

	"arbor/internal/model"
)

// RepoRoot returns the absolute path of the git repository containing dir.
func RepoRoot(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// IsRepo reports whether dir is inside a git work tree.
func IsRepo(dir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = dir
	return cmd.Run() == nil
}

// Remotes runs git remote -v and returns the configured remotes with their
// fetch URLs.
func Remotes(dir string) ([]model.Remote, error) {
	cmd := exec.Command("git", "remote", "-v")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git remote: %w", err)
	}
	return parseRemotes(string(out)), nil
}

// parseRemotes reads the two-lines-per-remote output of git remote -v,
// keeping only the fetch entry of each remote.
func parseRemotes(raw string) []model.Remote {
	var remotes []model.Remote
	seen := map[string]bool{}

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		name, url := fields[0], fields[1]
		if len(fields) >= 3 && fields[2] != "(fetch)" {
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		remotes = append(remotes, model.Remote{Name: name, URL: url})
	}
	return remotes
}
