package engine

import (
	"context"

	"github.com/a-wai/git-buildpackage/internal/git"
)

// realRepository implements Repository by calling the git package
type realRepository struct {
	repo *git.Repository
}

// NewRepository opens the repository containing dir
func NewRepository(dir string) (Repository, error) {
	repo, err := git.OpenRepository(dir)
	if err != nil {
		return nil, err
	}
	return &realRepository{repo: repo}, nil
}

func (r *realRepository) Root() string {
	return r.repo.GetRepoRoot()
}

func (r *realRepository) CurrentBranch() (string, error) {
	return r.repo.GetCurrentBranch()
}

func (r *realRepository) HasBranch(name string) (bool, error) {
	return r.repo.HasBranch(name)
}

func (r *realRepository) Head() (string, error) {
	return r.repo.HeadSHA()
}

func (r *realRepository) FirstParentCommits(rev string, limit int) ([]string, error) {
	return r.repo.FirstParentCommits(rev, limit)
}

func (r *realRepository) GitDir(ctx context.Context) (string, error) {
	return r.repo.GitDir(ctx)
}

func (r *realRepository) Status(ctx context.Context, paths ...string) (string, error) {
	return r.repo.Status(ctx, paths...)
}

func (r *realRepository) CreateBranch(ctx context.Context, name, rev string) error {
	return r.repo.CreateBranch(ctx, name, rev)
}

func (r *realRepository) DeleteBranch(ctx context.Context, name string) error {
	return r.repo.DeleteBranch(ctx, name)
}

func (r *realRepository) CheckoutBranch(ctx context.Context, name string) error {
	return r.repo.CheckoutBranch(ctx, name)
}

func (r *realRepository) Rebase(ctx context.Context, upstream string) (git.RebaseResult, error) {
	return r.repo.Rebase(ctx, upstream)
}

func (r *realRepository) FormatPatches(ctx context.Context, base, head, outDir string, signature bool) ([]string, error) {
	return r.repo.FormatPatches(ctx, base, head, outDir, signature)
}

func (r *realRepository) ApplyPatch(ctx context.Context, path string, strip int) error {
	return r.repo.ApplyPatch(ctx, path, strip)
}

func (r *realRepository) WriteTree(ctx context.Context) (string, error) {
	return r.repo.WriteTree(ctx)
}

func (r *realRepository) CommitTree(ctx context.Context, tree, message string, parents []string, author git.Identity) (string, error) {
	return r.repo.CommitTree(ctx, tree, message, parents, author)
}

func (r *realRepository) UpdateRef(ctx context.Context, ref, sha, reason string) error {
	return r.repo.UpdateRef(ctx, ref, sha, reason)
}
