// Package gitdiff produces unified diff streams from a git working copy, so
// a pipeline run can be pointed at a repository and a revision range instead
// of a pre-exported diff file.
package gitdiff

import (
	"fmt"
	"os/exec"
	"strings"
)

// Range returns the diff for a revision range (e.g. origin/main..HEAD) in
// the repository at root. When mergeBase is set, a two-dot range is widened
// to three dots so the diff is taken from the merge base, matching what a
// merge request would apply.
func Range(root, revRange string, mergeBase bool) (string, error) {
	diffRange := revRange
	if mergeBase && strings.Contains(revRange, "..") && !strings.Contains(revRange, "...") {
		diffRange = strings.Replace(revRange, "..", "...", 1)
	}
	out, err := gitOutput(root, "diff", diffRange)
	if err != nil {
		return "", fmt.Errorf("git diff %s: %w", revRange, err)
	}
	return out, nil
}

// Unstaged returns the working tree diff of the repository at root.
func Unstaged(root string) (string, error) {
	out, err := gitOutput(root, "diff")
	if err != nil {
		return "", fmt.Errorf("git diff: %w", err)
	}
	return out, nil
}

func gitOutput(root string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", root}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("%s: %s", err, string(exitErr.Stderr))
		}
		return "", err
	}
	return string(out), nil
}
