// Package actions implements the gbp-pq commands.
//
// Each action corresponds to a command (export, import, apply, rebase,
// drop) and orchestrates the repository, the working tree filesystem and
// the patch package.
//
// Key patterns:
//   - Actions accept runtime.Context which provides Repo, Fs, Splog and Config
//   - Actions are stateless; everything lives in the repository and the working tree
//   - Refused actions return typed errors from internal/errors
package actions
