package actions_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/a-wai/git-buildpackage/internal/demo"
	"github.com/a-wai/git-buildpackage/internal/git"
	"github.com/a-wai/git-buildpackage/internal/output"
	"github.com/a-wai/git-buildpackage/internal/runtime"
)

const testControl = "Source: hello\nMaintainer: Jane Doe <jane@example.org>\n\nPackage: hello\n"

var (
	jane = git.Identity{Name: "Jane Doe", Email: "jane@example.org", Date: "Sat, 1 Jan 2011 10:00:00 +0100"}
	john = git.Identity{Name: "John Roe", Email: "john@example.org", Date: "Sun, 2 Jan 2011 11:30:00 +0100"}
)

type testEnv struct {
	ctx  *runtime.Context
	repo *demo.Repository
	fs   afero.Fs
	out  *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "debian/control", []byte(testControl), 0o644))
	repo := demo.NewRepository(fs)

	var out bytes.Buffer
	splog, err := output.NewSplog(output.Options{Out: &out, Err: &out, Color: output.ColorOff, Verbose: true})
	require.NoError(t, err)

	return &testEnv{
		ctx:  runtime.NewContextWithFs(context.Background(), repo, fs, splog, nil),
		repo: repo,
		fs:   fs,
		out:  &out,
	}
}

// writePatch writes a mail formatted patch below debian/patches
func (e *testEnv) writePatch(t *testing.T, name string, author git.Identity, subject, body string) {
	t.Helper()

	var b strings.Builder
	if author.Name != "" {
		b.WriteString("From: " + author.String() + "\n")
		b.WriteString("Date: " + author.Date + "\n")
	}
	b.WriteString("Subject: [PATCH] " + subject + "\n\n")
	b.WriteString(body)
	b.WriteString("---\n hello.c | 1 +\n")
	require.NoError(t, afero.WriteFile(e.fs, "debian/patches/"+name, []byte(b.String()), 0o644))
}

func (e *testEnv) writeSeries(t *testing.T, names ...string) {
	t.Helper()
	content := strings.Join(names, "\n") + "\n"
	require.NoError(t, afero.WriteFile(e.fs, "debian/patches/series", []byte(content), 0o644))
}

// snapshots lists leftover series copies in the git directory
func (e *testEnv) snapshots(t *testing.T) []string {
	t.Helper()

	entries, err := afero.ReadDir(e.fs, demo.GitDir)
	require.NoError(t, err)
	var names []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "gbp-pq") {
			names = append(names, entry.Name())
		}
	}
	return names
}

func (e *testEnv) subjects(t *testing.T, base, head string) []string {
	t.Helper()

	commits, err := e.repo.Log(base, head)
	require.NoError(t, err)
	subjects := make([]string, len(commits))
	for i, c := range commits {
		subjects[i] = c.Subject
	}
	return subjects
}

func countCalls(calls []string, call string) int {
	n := 0
	for _, c := range calls {
		if c == call {
			n++
		}
	}
	return n
}
