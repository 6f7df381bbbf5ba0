// Package git provides low-level Git operations.
//
// It wraps git command execution and go-git reads behind a Repository type:
//   - Branch management (create, delete, checkout, existence)
//   - History queries (current branch, HEAD, first-parent walk)
//   - Patch plumbing (format-patch, apply, write-tree, commit-tree, update-ref)
//   - Rebase and status
//
// This package should be the only place where direct git commands are executed.
package git
