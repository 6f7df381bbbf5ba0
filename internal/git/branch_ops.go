package git

import (
	"context"
	"fmt"
)

// CreateBranch creates a branch at rev without checking it out.
// An empty rev creates the branch at HEAD.
func (r *Repository) CreateBranch(ctx context.Context, branchName, rev string) error {
	args := []string{"branch", branchName}
	if rev != "" {
		args = append(args, rev)
	}
	_, err := r.runner.Run(ctx, args...)
	if err != nil {
		return fmt.Errorf("failed to create branch %s: %w", branchName, err)
	}
	return nil
}

// CheckoutBranch checks out an existing branch
func (r *Repository) CheckoutBranch(ctx context.Context, branchName string) error {
	_, err := r.runner.Run(ctx, "checkout", branchName)
	if err != nil {
		return fmt.Errorf("failed to checkout branch %s: %w", branchName, err)
	}
	return nil
}

// DeleteBranch deletes a branch
func (r *Repository) DeleteBranch(ctx context.Context, branchName string) error {
	_, err := r.runner.Run(ctx, "branch", "-D", branchName)
	if err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branchName, err)
	}
	return nil
}

// UpdateRef points ref at sha, recording reason in the reflog
func (r *Repository) UpdateRef(ctx context.Context, ref, sha, reason string) error {
	args := []string{"update-ref"}
	if reason != "" {
		args = append(args, "-m", reason)
	}
	args = append(args, ref, sha)
	_, err := r.runner.Run(ctx, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", ref, err)
	}
	return nil
}
