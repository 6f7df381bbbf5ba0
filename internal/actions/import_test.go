package actions_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/a-wai/git-buildpackage/internal/actions"
	pqerrors "github.com/a-wai/git-buildpackage/internal/errors"
)

func (e *testEnv) addSeries(t *testing.T) {
	t.Helper()
	e.writePatch(t, "fix-build.patch", jane, "Fix the build", "Details.\n")
	e.writePatch(t, "debian/zlib.patch", john, "Use the system zlib", "")
	e.writeSeries(t, "fix-build.patch", "debian/zlib.patch")
}

func TestImport(t *testing.T) {
	t.Run("imports the series onto a new patch-queue branch", func(t *testing.T) {
		e := newTestEnv(t)
		e.addSeries(t)
		head, err := e.repo.Head()
		require.NoError(t, err)

		result, err := actions.Import(e.ctx, actions.ImportOptions{Tries: 1})
		require.NoError(t, err)
		require.Equal(t, head, result.Commit)
		require.Equal(t, 1, result.Attempts)
		require.Equal(t, "patch-queue/main", result.Branch)
		require.Equal(t, "patch-queue/main", e.repo.Current())

		commits, err := e.repo.Log("main", "patch-queue/main")
		require.NoError(t, err)
		require.Len(t, commits, 2)

		require.Equal(t, "Fix the build", commits[0].Subject)
		require.Equal(t, "Details.\n", commits[0].Body)
		require.Equal(t, jane, commits[0].Author)

		require.Equal(t, "Use the system zlib", commits[1].Subject)
		require.Equal(t, "Gbp-Pq-Topic: debian\n", commits[1].Body)
		require.Equal(t, john, commits[1].Author)

		require.Equal(t, []string{
			"gbp-pq import debian/patches/fix-build.patch",
			"gbp-pq import debian/patches/debian/zlib.patch",
		}, e.repo.Reflog)
		require.Contains(t, e.out.String(), "Patches listed in 'debian/patches/series' imported on 'patch-queue/main'")
		require.Empty(t, e.snapshots(t))
	})

	t.Run("time machine falls back to older commits", func(t *testing.T) {
		e := newTestEnv(t)
		e.addSeries(t)
		c1 := e.repo.AddCommit("main", "one", "", jane)
		e.repo.AddCommit("main", "two", "", jane)
		e.repo.AddCommit("main", "three", "", jane)
		e.repo.ApplyFailure = func(start, _ string) bool { return start != c1 }

		result, err := actions.Import(e.ctx, actions.ImportOptions{Tries: 3})
		require.NoError(t, err)
		require.Equal(t, c1, result.Commit)
		require.Equal(t, 3, result.Attempts)

		require.Equal(t, []string{"main", "patch-queue/main"}, e.repo.Branches())
		require.Equal(t, "patch-queue/main", e.repo.Current())
		queue, err := e.repo.Log(c1, "patch-queue/main")
		require.NoError(t, err)
		require.Len(t, queue, 2)
		require.Equal(t, c1, queue[0].Parent)
		require.Equal(t, 2, countCalls(e.repo.Calls, "branch -D patch-queue/main"))
		require.Empty(t, e.snapshots(t))

		for _, reason := range e.repo.Reflog {
			require.True(t, strings.HasPrefix(reason, "gbp-pq import .git/gbp-pq"), reason)
		}
	})

	t.Run("exhausted time machine leaves nothing behind", func(t *testing.T) {
		e := newTestEnv(t)
		e.addSeries(t)
		e.repo.AddCommit("main", "one", "", jane)
		e.repo.ApplyFailure = func(_, _ string) bool { return true }

		result, err := actions.Import(e.ctx, actions.ImportOptions{Tries: 2})
		require.ErrorIs(t, err, pqerrors.ErrPatchesNotApplied)
		require.Equal(t, 2, result.Attempts)

		require.Equal(t, []string{"main"}, e.repo.Branches())
		require.Equal(t, "main", e.repo.Current())
		require.Empty(t, e.snapshots(t))
		require.Contains(t, e.out.String(), "gbp:error: Failed to apply")
	})

	t.Run("commit failure moves on to the next candidate", func(t *testing.T) {
		e := newTestEnv(t)
		e.addSeries(t)
		c1 := e.repo.AddCommit("main", "one", "", jane)
		e.repo.AddCommit("main", "two", "", jane)
		e.repo.CommitTreeFailure = func(start string) error {
			if start != c1 {
				return errors.New("commit-tree: out of disk space")
			}
			return nil
		}

		result, err := actions.Import(e.ctx, actions.ImportOptions{Tries: 3})
		require.NoError(t, err)
		require.Equal(t, c1, result.Commit)
		require.Equal(t, 2, result.Attempts)
		require.Equal(t, []string{"main", "patch-queue/main"}, e.repo.Branches())
		require.Equal(t, "patch-queue/main", e.repo.Current())
		require.Equal(t, []string{"Fix the build", "Use the system zlib"}, e.subjects(t, c1, "patch-queue/main"))
	})

	t.Run("commit failure on every candidate leaves nothing behind", func(t *testing.T) {
		e := newTestEnv(t)
		e.addSeries(t)
		e.repo.AddCommit("main", "one", "", jane)
		e.repo.AddCommit("main", "two", "", jane)
		e.repo.CommitTreeFailure = func(string) error { return errors.New("commit-tree: boom") }

		result, err := actions.Import(e.ctx, actions.ImportOptions{Tries: 3})
		require.ErrorIs(t, err, pqerrors.ErrPatchesNotApplied)
		require.ErrorContains(t, err, "commit-tree: boom")
		require.Equal(t, 3, result.Attempts)
		require.Equal(t, []string{"main"}, e.repo.Branches())
		require.Equal(t, "main", e.repo.Current())
		require.Empty(t, e.snapshots(t))
	})

	t.Run("imports quilt patches without a mail header", func(t *testing.T) {
		e := newTestEnv(t)
		quilt := "Index: hello/hello.c\n" +
			"===================================================================\n" +
			"--- hello.orig/hello.c\n" +
			"+++ hello/hello.c\n" +
			"@@ -1 +1 @@\n" +
			"-a\n" +
			"+b\n"
		require.NoError(t, afero.WriteFile(e.fs, "debian/patches/fix-hurd.patch", []byte(quilt), 0o644))
		e.writeSeries(t, "fix-hurd.patch")

		_, err := actions.Import(e.ctx, actions.ImportOptions{Tries: 1})
		require.NoError(t, err)
		commits, err := e.repo.Log("main", "patch-queue/main")
		require.NoError(t, err)
		require.Len(t, commits, 1)
		require.Equal(t, "fix hurd", commits[0].Subject)
		require.Equal(t, "Jane Doe", commits[0].Author.Name)
		require.Contains(t, e.out.String(), "has no authorship information, using 'Jane Doe <jane@example.org>'")
	})

	t.Run("tries below one behave like one", func(t *testing.T) {
		e := newTestEnv(t)
		e.addSeries(t)
		e.repo.AddCommit("main", "one", "", jane)
		e.repo.ApplyFailure = func(_, _ string) bool { return true }

		result, err := actions.Import(e.ctx, actions.ImportOptions{Tries: 0})
		require.ErrorIs(t, err, pqerrors.ErrPatchesNotApplied)
		require.Equal(t, 1, result.Attempts)
		require.Empty(t, e.snapshots(t))
	})

	t.Run("tries beyond the history stop at the root commit", func(t *testing.T) {
		e := newTestEnv(t)
		e.addSeries(t)

		result, err := actions.Import(e.ctx, actions.ImportOptions{Tries: 10})
		require.NoError(t, err)
		require.Equal(t, 1, result.Attempts)
	})

	t.Run("branch creation failure is not retried", func(t *testing.T) {
		e := newTestEnv(t)
		e.addSeries(t)
		e.repo.AddCommit("main", "one", "", jane)
		e.repo.AddCommit("main", "two", "", jane)
		e.repo.CreateBranchErr = errors.New("cannot lock ref")

		_, err := actions.Import(e.ctx, actions.ImportOptions{Tries: 3})
		require.ErrorIs(t, err, pqerrors.ErrBranchCreate)
		require.Equal(t, "Cannot create patch-queue branch 'patch-queue/main'.", err.Error())

		creates := 0
		for _, call := range e.repo.Calls {
			if strings.HasPrefix(call, "branch patch-queue/main") {
				creates++
			}
		}
		require.Equal(t, 1, creates)
		require.Empty(t, e.snapshots(t))
	})

	t.Run("refuses to run on a patch-queue branch", func(t *testing.T) {
		e := newTestEnv(t)
		e.addSeries(t)
		e.repo.AddBranch("patch-queue/main", "main")
		e.repo.Checkout("patch-queue/main")

		_, err := actions.Import(e.ctx, actions.ImportOptions{Tries: 1})
		require.ErrorIs(t, err, pqerrors.ErrAlreadyOnPQBranch)
		require.Equal(t, "patch-queue/main", e.repo.Current())
	})

	t.Run("refuses to replace an existing patch-queue branch", func(t *testing.T) {
		e := newTestEnv(t)
		e.addSeries(t)
		e.repo.AddBranch("patch-queue/main", "main")

		_, err := actions.Import(e.ctx, actions.ImportOptions{Tries: 1})
		require.ErrorIs(t, err, pqerrors.ErrPQBranchExists)
		require.Contains(t, err.Error(), "Try 'rebase' instead.")
		require.Equal(t, "main", e.repo.Current())
	})

	t.Run("force replaces the patch-queue branch from the patch-queue branch", func(t *testing.T) {
		e := newTestEnv(t)
		e.addSeries(t)
		e.repo.AddBranch("patch-queue/main", "main")
		e.repo.AddCommit("patch-queue/main", "Stale", "", jane)
		e.repo.Checkout("patch-queue/main")

		result, err := actions.Import(e.ctx, actions.ImportOptions{Tries: 1, Force: true})
		require.NoError(t, err)
		require.Equal(t, "patch-queue/main", result.Branch)
		require.Equal(t, []string{"Fix the build", "Use the system zlib"}, e.subjects(t, "main", "patch-queue/main"))
		require.Contains(t, e.out.String(), "Dropped branch 'patch-queue/main'.")
	})

	t.Run("missing series", func(t *testing.T) {
		e := newTestEnv(t)

		_, err := actions.Import(e.ctx, actions.ImportOptions{Tries: 1})
		require.ErrorContains(t, err, "debian/patches/series")
		require.Equal(t, "main", e.repo.Current())
	})
}

func TestExportImportRoundTrip(t *testing.T) {
	e := newTestEnv(t)
	e.addPatchQueue()
	before, err := e.repo.Log("main", "patch-queue/main")
	require.NoError(t, err)

	_, err = actions.Export(e.ctx, actions.ExportOptions{PatchNumbers: false})
	require.NoError(t, err)
	_, err = actions.Import(e.ctx, actions.ImportOptions{Tries: 1, Force: true})
	require.NoError(t, err)

	after, err := e.repo.Log("main", "patch-queue/main")
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		require.Equal(t, before[i].Subject, after[i].Subject)
		require.Equal(t, before[i].Body, after[i].Body)
		require.Equal(t, before[i].Author, after[i].Author)
	}
}
