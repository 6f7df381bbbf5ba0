package actions

import (
	"fmt"

	"github.com/a-wai/git-buildpackage/internal/runtime"
)

// resolveBranch returns branch, or the checked out branch when branch is empty
func resolveBranch(ctx *runtime.Context, branch string) (string, error) {
	if branch != "" {
		return branch, nil
	}
	current, err := ctx.Repo.CurrentBranch()
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return current, nil
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
