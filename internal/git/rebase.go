package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// RebaseResult represents the result of a rebase operation
type RebaseResult int

const (
	// RebaseDone indicates the rebase was successful
	RebaseDone RebaseResult = iota
	// RebaseConflict indicates a conflict occurred during rebase
	RebaseConflict
)

// Rebase rebases the checked out branch onto upstream. A rebase stopped by
// conflicts is left in progress for the user and reported as RebaseConflict.
func (r *Repository) Rebase(ctx context.Context, upstream string) (RebaseResult, error) {
	_, err := r.runner.Run(ctx, "rebase", upstream)
	if err != nil {
		if r.IsRebaseInProgress(ctx) {
			return RebaseConflict, nil
		}
		return RebaseConflict, fmt.Errorf("failed to rebase onto %s: %w", upstream, err)
	}
	return RebaseDone, nil
}

// IsRebaseInProgress checks if a rebase is currently in progress
func (r *Repository) IsRebaseInProgress(ctx context.Context) bool {
	// Check for .git/rebase-merge or .git/rebase-apply directories
	// This is more reliable than checking REBASE_HEAD which can persist after rebase
	gitDir, err := r.runner.Run(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return false
	}

	// Check for interactive rebase
	if _, err := os.Stat(filepath.Join(gitDir, "rebase-merge")); err == nil {
		return true
	}
	// Check for non-interactive rebase
	if _, err := os.Stat(filepath.Join(gitDir, "rebase-apply")); err == nil {
		return true
	}
	return false
}
