package git

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// FirstParentCommits returns up to limit commits reachable from rev by
// following first parents, most recent first.
func (r *Repository) FirstParentCommits(rev string, limit int) ([]string, error) {
	if limit < 1 {
		return []string{}, nil
	}

	hash, err := r.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", rev, err)
	}

	commit, err := r.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}

	shas := make([]string, 0, limit)
	for {
		shas = append(shas, commit.Hash.String())
		if len(shas) == limit || commit.NumParents() == 0 {
			break
		}
		// Get first parent
		commit, err = commit.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("failed to get parent commit: %w", err)
		}
	}

	return shas, nil
}
