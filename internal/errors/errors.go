// Package errors provides sentinel errors and custom error types for gbp-pq.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrNotARepository indicates that the working directory is not inside a git repository
	ErrNotARepository = errors.New("not a git repository")

	// ErrNotOnBranch indicates that HEAD is not on a branch
	ErrNotOnBranch = errors.New("not on a branch")

	// ErrAlreadyOnPQBranch indicates an import was requested from a patch-queue branch
	ErrAlreadyOnPQBranch = errors.New("already on a patch-queue branch")

	// ErrPQBranchExists indicates that the patch-queue branch to import into already exists
	ErrPQBranchExists = errors.New("patch-queue branch already exists")

	// ErrDropCurrentBranch indicates an attempt to drop the patch-queue branch that is checked out
	ErrDropCurrentBranch = errors.New("can't drop the branch you're on")

	// ErrPatchesNotApplied indicates that no time-machine candidate accepted the series
	ErrPatchesNotApplied = errors.New("couldn't apply patches")

	// ErrInvalidRole indicates an identity role other than author or committer
	ErrInvalidRole = errors.New("neither committer nor author")

	// ErrPatchApply indicates that a patch did not apply
	ErrPatchApply = errors.New("patch does not apply")

	// ErrBranchCreate indicates that a branch could not be created
	ErrBranchCreate = errors.New("cannot create branch")
)

// UsageError represents a command line mistake such as a missing action
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// NewUsageError creates a new UsageError
func NewUsageError(format string, args ...any) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// PreconditionError represents a refused action on a given branch
type PreconditionError struct {
	Branch string
	Err    error
	Hint   string
}

func (e *PreconditionError) Error() string {
	msg := fmt.Sprintf("%s: '%s'", e.Err, e.Branch)
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// NewPreconditionError creates a new PreconditionError
func NewPreconditionError(branch string, err error, hint string) *PreconditionError {
	return &PreconditionError{Branch: branch, Err: err, Hint: hint}
}

// ApplyError represents a patch that could not be applied to the working tree.
// Within the import time machine this is recoverable: the next candidate is tried.
type ApplyError struct {
	Patch string
	Err   error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("failed to apply '%s': %v", e.Patch, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrPatchApply
func (e *ApplyError) Is(target error) bool {
	return target == ErrPatchApply
}

// NewApplyError creates a new ApplyError
func NewApplyError(patch string, err error) *ApplyError {
	return &ApplyError{Patch: patch, Err: err}
}

// BranchCreateError represents a failure to create a branch. It is never retried.
type BranchCreateError struct {
	Branch string
	Hint   string
	Err    error
}

func (e *BranchCreateError) Error() string {
	msg := fmt.Sprintf("Cannot create patch-queue branch '%s'.", e.Branch)
	if e.Hint != "" {
		msg += " " + e.Hint
	}
	return msg
}

func (e *BranchCreateError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrBranchCreate
func (e *BranchCreateError) Is(target error) bool {
	return target == ErrBranchCreate
}

// NewBranchCreateError creates a new BranchCreateError
func NewBranchCreateError(branch, hint string, err error) *BranchCreateError {
	return &BranchCreateError{Branch: branch, Hint: hint, Err: err}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
