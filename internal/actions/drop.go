package actions

import (
	pqerrors "github.com/a-wai/git-buildpackage/internal/errors"
	"github.com/a-wai/git-buildpackage/internal/pq"
	"github.com/a-wai/git-buildpackage/internal/runtime"
)

// DropOptions contains options for dropping a patch queue
type DropOptions struct {
	// Branch defaults to the current branch
	Branch string
}

// Drop deletes the patch-queue branch of a regular branch. Having no
// patch-queue branch is not an error.
func Drop(ctx *runtime.Context, opts DropOptions) error {
	branch, err := resolveBranch(ctx, opts.Branch)
	if err != nil {
		return err
	}
	if pq.IsPQBranch(branch) {
		return pqerrors.NewPreconditionError(branch, pqerrors.ErrDropCurrentBranch, "")
	}
	_, err = dropPQ(ctx, branch)
	return err
}

// dropPQ deletes the patch-queue branch of branch if there is one and
// reports whether it did
func dropPQ(ctx *runtime.Context, branch string) (bool, error) {
	pqBranch := pq.PQBranchName(branch)
	exists, err := ctx.Repo.HasBranch(pqBranch)
	if err != nil {
		return false, err
	}
	if !exists {
		ctx.Splog.Info("No patch queue branch found - doing nothing.")
		return false, nil
	}

	if err := ctx.Repo.DeleteBranch(ctx.Context, pqBranch); err != nil {
		return false, err
	}
	ctx.Splog.Info("Dropped branch '%s'.", pqBranch)
	return true, nil
}
