package git

import (
	"context"
	"fmt"
	"strconv"
)

// FormatPatches writes one patch file per commit in base..head into outDir,
// oldest first, and returns their paths relative to the repository root.
func (r *Repository) FormatPatches(ctx context.Context, base, head, outDir string, signature bool) ([]string, error) {
	args := []string{"format-patch", "-N", "-k", "-o", outDir}
	if !signature {
		args = append(args, "--no-signature")
	}
	args = append(args, fmt.Sprintf("%s..%s", base, head))

	files, err := r.runner.RunLines(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to format patches for %s..%s: %w", base, head, err)
	}
	return files, nil
}

// ApplyPatch applies a patch to the working tree and the index
func (r *Repository) ApplyPatch(ctx context.Context, path string, strip int) error {
	args := []string{"apply", "--index"}
	if strip >= 0 {
		args = append(args, "-p"+strconv.Itoa(strip))
	}
	args = append(args, path)
	_, err := r.runner.Run(ctx, args...)
	if err != nil {
		return fmt.Errorf("failed to apply %s: %w", path, err)
	}
	return nil
}

// WriteTree writes the index as a tree object and returns its SHA
func (r *Repository) WriteTree(ctx context.Context) (string, error) {
	sha, err := r.runner.Run(ctx, "write-tree")
	if err != nil {
		return "", fmt.Errorf("failed to write tree: %w", err)
	}
	return sha, nil
}

// CommitTree creates a commit object for tree with the given parents and
// author. The committer comes from the git configuration.
func (r *Repository) CommitTree(ctx context.Context, tree, message string, parents []string, author Identity) (string, error) {
	args := []string{"commit-tree", tree}
	for _, parent := range parents {
		args = append(args, "-p", parent)
	}
	sha, err := r.runner.RunWithEnv(ctx, author.AuthorEnv(), message, args...)
	if err != nil {
		return "", fmt.Errorf("failed to create commit: %w", err)
	}
	return sha, nil
}
