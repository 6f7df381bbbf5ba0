package actions

import (
	"fmt"

	"github.com/a-wai/git-buildpackage/internal/git"
	"github.com/a-wai/git-buildpackage/internal/pq"
	"github.com/a-wai/git-buildpackage/internal/runtime"
)

// RebaseOptions contains options for rebasing a patch queue
type RebaseOptions struct {
	// Branch defaults to the current branch
	Branch string
}

// Rebase rebases the patch-queue branch onto its base branch, switching to
// the patch-queue branch (and creating it) first when needed
func Rebase(ctx *runtime.Context, opts RebaseOptions) error {
	branch, err := resolveBranch(ctx, opts.Branch)
	if err != nil {
		return err
	}

	base, ok := pq.PQBranchBase(branch)
	if !ok {
		if _, err := SwitchToPQBranch(ctx, branch); err != nil {
			return err
		}
		base = branch
	}

	result, err := ctx.Repo.Rebase(ctx.Context, base)
	if err != nil {
		return err
	}
	if result == git.RebaseConflict {
		ctx.Splog.Info("Resolve the conflicts, then run 'git rebase --continue', or 'git rebase --abort' to give up.")
		return fmt.Errorf("hit conflict rebasing '%s' onto '%s'", pq.PQBranchName(base), base)
	}

	ctx.Splog.Info("Rebased '%s' onto '%s'.", pq.PQBranchName(base), base)
	return nil
}
