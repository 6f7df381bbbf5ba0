package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	pqerrors "github.com/a-wai/git-buildpackage/internal/errors"
)

// Repository wraps a go-git repository together with a command runner rooted
// at its top level directory. Reads go through go-git, mutations through git.
type Repository struct {
	*git.Repository
	path   string
	runner *CommandRunner
}

// OpenRepository opens the git repository containing path
func OpenRepository(path string) (*Repository, error) {
	// Resolve to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", absPath, pqerrors.ErrNotARepository)
	}

	root := absPath
	if worktree, err := repo.Worktree(); err == nil {
		root = worktree.Filesystem.Root()
	}

	return &Repository{
		Repository: repo,
		path:       root,
		runner:     NewCommandRunner(root),
	}, nil
}

// GetRepoRoot returns the root directory of the repository
func (r *Repository) GetRepoRoot() string {
	return r.path
}

// GetCurrentBranch returns the current branch name
func (r *Repository) GetCurrentBranch() (string, error) {
	head, err := r.Repository.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", pqerrors.ErrNotOnBranch
	}

	return head.Name().Short(), nil
}

// HasBranch reports whether a local branch exists
func (r *Repository) HasBranch(name string) (bool, error) {
	_, err := r.Reference(plumbing.NewBranchReferenceName(name), false)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up branch %s: %w", name, err)
	}
	return true, nil
}

// HeadSHA returns the commit HEAD points to
func (r *Repository) HeadSHA() (string, error) {
	head, err := r.Repository.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// GitDir returns the git directory relative to the repository root when
// it lives below it, and as an absolute path otherwise.
func (r *Repository) GitDir(ctx context.Context) (string, error) {
	out, err := r.runner.Run(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", fmt.Errorf("failed to find git directory: %w", err)
	}
	if rel, err := filepath.Rel(r.path, out); err == nil && filepath.IsLocal(rel) {
		return rel, nil
	}
	return out, nil
}

// Status returns `git status` restricted to paths
func (r *Repository) Status(ctx context.Context, paths ...string) (string, error) {
	args := append([]string{"status", "--"}, paths...)
	out, err := r.runner.Run(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("failed to get status: %w", err)
	}
	return out, nil
}
