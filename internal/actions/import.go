package actions

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cenkalti/backoff/v4"

	pqerrors "github.com/a-wai/git-buildpackage/internal/errors"
	"github.com/a-wai/git-buildpackage/internal/patch"
	"github.com/a-wai/git-buildpackage/internal/pq"
	"github.com/a-wai/git-buildpackage/internal/runtime"
	"github.com/a-wai/git-buildpackage/internal/utils"
)

// snapshotPrefix names the temporary directories holding a series copy
const snapshotPrefix = "gbp-pq"

// ImportOptions contains options for importing a patch series
type ImportOptions struct {
	// Branch defaults to the current branch
	Branch string
	// Series defaults to debian/patches/series
	Series string
	// Tries is the number of commits, walking back along first parents
	// from Branch, to try to apply the series to
	Tries int
	// Force imports from a patch-queue branch and replaces an existing
	// patch-queue branch
	Force bool
}

// ImportResult describes a finished import
type ImportResult struct {
	// Commit the patch-queue branch was created from
	Commit string
	// Attempts is the number of candidate commits tried
	Attempts int
	// Branch is the patch-queue branch, now checked out
	Branch string
}

// Import creates the patch-queue branch and commits every patch of the
// series onto it. When the series does not apply to the tip of the branch,
// up to Tries-1 earlier commits are tried. A failed attempt leaves no
// patch-queue branch behind.
func Import(ctx *runtime.Context, opts ImportOptions) (ImportResult, error) {
	repo := ctx.Repo
	splog := ctx.Splog
	var result ImportResult

	branch, err := resolveBranch(ctx, opts.Branch)
	if err != nil {
		return result, err
	}

	if base, ok := pq.PQBranchBase(branch); ok {
		if !opts.Force {
			return result, pqerrors.NewPreconditionError(branch, pqerrors.ErrAlreadyOnPQBranch, "")
		}
		splog.Info("On '%s', switching to '%s'", branch, base)
		if err := repo.CheckoutBranch(ctx.Context, base); err != nil {
			return result, err
		}
		branch = base
	}

	pqBranch := pq.PQBranchName(branch)
	exists, err := repo.HasBranch(pqBranch)
	if err != nil {
		return result, err
	}
	if exists {
		if !opts.Force {
			return result, pqerrors.NewPreconditionError(pqBranch, pqerrors.ErrPQBranchExists, "Try 'rebase' instead.")
		}
		if _, err := dropPQ(ctx, branch); err != nil {
			return result, err
		}
	}

	tries := opts.Tries
	if tries < 1 {
		tries = 1
	}
	commits, err := repo.FirstParentCommits(branch, tries)
	if err != nil {
		return result, err
	}
	if len(commits) == 0 {
		return result, pqerrors.ErrPatchesNotApplied
	}

	seriesFile := opts.Series
	if seriesFile == "" {
		seriesFile = pq.SeriesFile
	}
	readFrom := seriesFile

	// Applying patches can modify the series directory, so later attempts
	// read a copy
	if len(commits) > 1 {
		snapshot, err := snapshotSeries(ctx, filepath.Dir(seriesFile))
		if err != nil {
			return result, err
		}
		defer func() {
			if err := snapshot.Remove(); err != nil {
				splog.Warn("Failed to remove %s: %v", snapshot.Root(), err)
			}
		}()
		readFrom = filepath.Join(snapshot.Dir, filepath.Base(seriesFile))
	}

	series, err := patch.ReadSeries(ctx.Fs, readFrom)
	if err != nil {
		return result, err
	}

	// failed is set when the last attempt failed in a way the next
	// candidate may not
	failed := false
	attempt := func() error {
		commit := commits[result.Attempts]
		result.Attempts++
		if len(commits) > 1 {
			splog.Info("%s: Trying to apply patches at '%s'", shortSHA(commit), commit)
		} else {
			splog.Debug("Trying to apply patches at '%s'", commit)
		}
		err := applySeriesAt(ctx, series, branch, pqBranch, commit)
		var permanent *backoff.PermanentError
		failed = err != nil && !errors.As(err, &permanent)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(len(commits)-1)), ctx.Context)
	if err := backoff.Retry(attempt, policy); err != nil {
		if failed && ctx.Context.Err() == nil {
			return result, fmt.Errorf("%w: %v", pqerrors.ErrPatchesNotApplied, err)
		}
		return result, err
	}

	result.Commit = commits[result.Attempts-1]
	result.Branch = pqBranch
	splog.Info("Patches listed in '%s' imported on '%s'", seriesFile, pqBranch)
	return result, nil
}

// applySeriesAt creates pqBranch at commit and commits the series onto it.
// When a patch cannot be applied or committed, branch is checked out again,
// pqBranch is deleted and the error is returned for the next attempt.
// Failing to create the branch or to clean up is permanent.
func applySeriesAt(ctx *runtime.Context, series patch.Series, branch, pqBranch, commit string) error {
	repo := ctx.Repo

	if err := repo.CreateBranch(ctx.Context, pqBranch, commit); err != nil {
		return backoff.Permanent(pqerrors.NewBranchCreateError(pqBranch, "", err))
	}
	if err := repo.CheckoutBranch(ctx.Context, pqBranch); err != nil {
		if delErr := repo.DeleteBranch(ctx.Context, pqBranch); delErr != nil {
			ctx.Splog.Warn("Failed to delete '%s': %v", pqBranch, delErr)
		}
		return backoff.Permanent(err)
	}

	for _, p := range series {
		if _, err := ApplyAndCommit(ctx, p, p.Topic); err != nil {
			ctx.Splog.Error("Failed to apply '%s'", p.Path)
			ctx.Splog.Debug("%v", err)
			if err := repo.CheckoutBranch(ctx.Context, branch); err != nil {
				return backoff.Permanent(err)
			}
			if err := repo.DeleteBranch(ctx.Context, pqBranch); err != nil {
				return backoff.Permanent(err)
			}
			return err
		}
	}
	return nil
}

// snapshotSeries copies the series directory below the git directory
func snapshotSeries(ctx *runtime.Context, dir string) (*utils.Snapshot, error) {
	gitDir, err := ctx.Repo.GitDir(ctx.Context)
	if err != nil {
		return nil, err
	}
	if filepath.IsAbs(gitDir) {
		// The filesystem is rooted at the working tree
		rel, err := filepath.Rel(ctx.RepoRoot, gitDir)
		if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
			rel = "."
		}
		gitDir = rel
	}

	snapshot, err := utils.NewSnapshot(ctx.Fs, dir, gitDir, snapshotPrefix)
	if err != nil {
		return nil, err
	}
	ctx.Splog.Debug("Saved %s in %s", dir, snapshot.Dir)
	return snapshot, nil
}
