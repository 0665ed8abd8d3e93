package buildinfo

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// gitExecutable is resolved through PATH.
//
//nolint:gochecknoglobals // Overridden by tests to simulate a host without git.
var gitExecutable = "git"

// CommitHash returns the HEAD commit of the repository containing rootDir, or "" when it
// cannot be determined. It shells out to git; hosts without a git executable are read
// through go-git instead.
func CommitHash(ctx context.Context, rootDir string) string {
	path, err := exec.LookPath(gitExecutable)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return commitHashFromRepo(rootDir)
		}

		return ""
	}

	cmd := exec.CommandContext(ctx, path, "rev-parse", "HEAD")
	cmd.Dir = rootDir

	// Output discards stderr and reports non-zero exits as errors.
	out, err := cmd.Output()
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(out))
}

// commitHashFromRepo opens the repository containing dir, walking up to find .git.
func commitHashFromRepo(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}

	head, err := repo.Head()
	if err != nil {
		return ""
	}

	return head.Hash().String()
}
