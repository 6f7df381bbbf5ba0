package engine

import (
	"context"

	"github.com/a-wai/git-buildpackage/internal/git"
)

// BranchReader provides read access to branches and history
type BranchReader interface {
	CurrentBranch() (string, error)
	HasBranch(name string) (bool, error)
	Head() (string, error)
	// FirstParentCommits returns up to limit commits from rev, most recent first
	FirstParentCommits(rev string, limit int) ([]string, error)
	GitDir(ctx context.Context) (string, error)
	Status(ctx context.Context, paths ...string) (string, error)
}

// BranchWriter provides branch mutations
type BranchWriter interface {
	// CreateBranch creates name at rev; an empty rev means HEAD
	CreateBranch(ctx context.Context, name, rev string) error
	DeleteBranch(ctx context.Context, name string) error
	CheckoutBranch(ctx context.Context, name string) error
	Rebase(ctx context.Context, upstream string) (git.RebaseResult, error)
}

// PatchWriter turns commits into patch files and patch files into commits
type PatchWriter interface {
	// FormatPatches writes base..head as patch files into outDir, oldest first
	FormatPatches(ctx context.Context, base, head, outDir string, signature bool) ([]string, error)
	ApplyPatch(ctx context.Context, path string, strip int) error
	WriteTree(ctx context.Context) (string, error)
	CommitTree(ctx context.Context, tree, message string, parents []string, author git.Identity) (string, error)
	UpdateRef(ctx context.Context, ref, sha, reason string) error
}

// Repository is the complete collaborator interface used by the actions
type Repository interface {
	BranchReader
	BranchWriter
	PatchWriter
	// Root returns the repository top level directory
	Root() string
}
