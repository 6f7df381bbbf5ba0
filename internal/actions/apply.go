package actions

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/a-wai/git-buildpackage/internal/debian"
	pqerrors "github.com/a-wai/git-buildpackage/internal/errors"
	"github.com/a-wai/git-buildpackage/internal/git"
	"github.com/a-wai/git-buildpackage/internal/patch"
	"github.com/a-wai/git-buildpackage/internal/pq"
	"github.com/a-wai/git-buildpackage/internal/runtime"
)

// ApplyResult represents the result of applying a patch
type ApplyResult int

const (
	// ApplyDone indicates the patch was applied and committed
	ApplyDone ApplyResult = iota
	// ApplyFailed indicates the patch did not apply; nothing was committed
	ApplyFailed
)

// ApplyAndCommit applies p to the working tree and index and commits the
// result on top of HEAD. A patch that does not apply yields ApplyFailed and
// an ApplyError. Errors from writing the commit are not ApplyErrors.
func ApplyAndCommit(ctx *runtime.Context, p *patch.Patch, topic string) (ApplyResult, error) {
	repo := ctx.Repo
	splog := ctx.Splog

	author := git.Identity{Name: p.Author, Email: p.Email, Date: p.Date}
	if !author.IsComplete() {
		name, email, err := debian.Maintainer(ctx.Fs, ".")
		if err != nil {
			splog.Debug("No maintainer found: %v", err)
		}
		if name != "" && email != "" {
			author.Name, author.Email = name, email
			splog.Warn("Patch '%s' has no authorship information, using '%s'", p.Path, author)
		} else {
			splog.Warn("Patch '%s' has no authorship information", p.Path)
		}
	}

	splog.Debug("Applying %s", p.Path)
	if err := repo.ApplyPatch(ctx.Context, p.Path, p.Strip); err != nil {
		return ApplyFailed, pqerrors.NewApplyError(p.Path, err)
	}

	tree, err := repo.WriteTree(ctx.Context)
	if err != nil {
		return ApplyFailed, err
	}
	head, err := repo.Head()
	if err != nil {
		return ApplyFailed, err
	}
	commit, err := repo.CommitTree(ctx.Context, tree, p.Message(topic), []string{head}, author)
	if err != nil {
		return ApplyFailed, err
	}
	if err := repo.UpdateRef(ctx.Context, "HEAD", commit, "gbp-pq import "+p.Path); err != nil {
		return ApplyFailed, err
	}
	return ApplyDone, nil
}

// SwitchToPQBranch checks out the patch-queue branch of branch, creating it
// at the current HEAD when it does not exist. It does nothing when branch
// already is a patch-queue branch. The patch-queue branch is returned.
func SwitchToPQBranch(ctx *runtime.Context, branch string) (string, error) {
	if pq.IsPQBranch(branch) {
		return branch, nil
	}

	pqBranch := pq.PQBranchName(branch)
	exists, err := ctx.Repo.HasBranch(pqBranch)
	if err != nil {
		return "", err
	}
	if !exists {
		if err := ctx.Repo.CreateBranch(ctx.Context, pqBranch, ""); err != nil {
			return "", pqerrors.NewBranchCreateError(pqBranch, "Try 'rebase' instead.", err)
		}
	}

	ctx.Splog.Info("Switching to '%s'", pqBranch)
	if err := ctx.Repo.CheckoutBranch(ctx.Context, pqBranch); err != nil {
		return "", err
	}
	return pqBranch, nil
}

// ApplyOptions contains options for applying a single patch
type ApplyOptions struct {
	// Branch defaults to the current branch
	Branch string
	// PatchFile is relative to the repository top level, or absolute
	PatchFile string
	Topic     string
}

// ApplySingle applies one patch file on top of the patch-queue branch
func ApplySingle(ctx *runtime.Context, opts ApplyOptions) error {
	if opts.PatchFile == "" {
		return pqerrors.NewUsageError("No patch name given.")
	}

	branch, err := resolveBranch(ctx, opts.Branch)
	if err != nil {
		return err
	}

	fs := ctx.Fs
	if filepath.IsAbs(opts.PatchFile) {
		fs = afero.NewReadOnlyFs(afero.NewOsFs())
	}
	p, err := patch.Load(fs, opts.PatchFile, opts.Topic, patch.DefaultStrip)
	if err != nil {
		return err
	}

	if _, err := SwitchToPQBranch(ctx, branch); err != nil {
		return err
	}

	result, err := ApplyAndCommit(ctx, p, opts.Topic)
	if err != nil {
		return err
	}
	if result != ApplyDone {
		return fmt.Errorf("failed to apply '%s'", p.Path)
	}

	ctx.Splog.Info("Applied %s", filepath.Base(p.Path))
	return nil
}
