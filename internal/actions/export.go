package actions

import (
	"fmt"

	"github.com/a-wai/git-buildpackage/internal/patch"
	"github.com/a-wai/git-buildpackage/internal/pq"
	"github.com/a-wai/git-buildpackage/internal/runtime"
	"github.com/a-wai/git-buildpackage/internal/utils"
)

// ExportOptions contains options for exporting a patch queue
type ExportOptions struct {
	// Branch to export the patch queue of; defaults to the current branch
	Branch       string
	PatchNumbers bool
}

// ExportResult describes a finished export
type ExportResult struct {
	// SwitchedTo is set when the export started on a patch-queue branch and
	// checked out its base
	SwitchedTo string
	// Patches lists the manifest entries, in order
	Patches []string
}

// Export regenerates debian/patches and its series from the commits of the
// patch-queue branch
func Export(ctx *runtime.Context, opts ExportOptions) (ExportResult, error) {
	repo := ctx.Repo
	splog := ctx.Splog
	var result ExportResult

	branch, err := resolveBranch(ctx, opts.Branch)
	if err != nil {
		return result, err
	}

	if base, ok := pq.PQBranchBase(branch); ok {
		splog.Info("On '%s', switching to '%s'", branch, base)
		if err := repo.CheckoutBranch(ctx.Context, base); err != nil {
			return result, err
		}
		branch = base
		result.SwitchedTo = base
	}

	pqBranch := pq.PQBranchName(branch)
	exists, err := repo.HasBranch(pqBranch)
	if err != nil {
		return result, err
	}
	if !exists {
		return result, fmt.Errorf("no patch-queue branch '%s' to export", pqBranch)
	}

	existed, err := utils.RemoveAllTolerant(ctx.Fs, pq.PatchDir)
	if err != nil {
		return result, fmt.Errorf("failed to remove patch dir: %w", err)
	}
	if !existed {
		splog.Debug("%s does not exist, nothing to remove", pq.PatchDir)
	}

	files, err := repo.FormatPatches(ctx.Context, branch, pqBranch, pq.PatchDir, false)
	if err != nil {
		return result, err
	}
	if len(files) == 0 {
		splog.Info("No patches on '%s' - nothing to do.", pqBranch)
		return result, nil
	}

	splog.Info("Regenerating patch queue in '%s'.", pq.PatchDir)
	names := make([]string, 0, len(files))
	for _, file := range files {
		dst, topic, err := patch.WritePatch(ctx.Fs, file, pq.PatchDir, patch.WriteOptions{PatchNumbers: opts.PatchNumbers})
		if err != nil {
			return result, err
		}
		name, err := patch.SeriesName(pq.PatchDir, dst)
		if err != nil {
			return result, err
		}
		if topic != "" {
			splog.Debug("Moved '%s' to topic '%s'", file, topic)
		}
		names = append(names, name)
	}

	if err := patch.WriteSeries(ctx.Fs, pq.SeriesFile, names); err != nil {
		return result, err
	}
	result.Patches = names

	status, err := repo.Status(ctx.Context, pq.PatchDir)
	if err != nil {
		splog.Warn("Failed to get status of '%s': %v", pq.PatchDir, err)
	} else if status != "" {
		splog.Page(status + "\n")
	}

	return result, nil
}
