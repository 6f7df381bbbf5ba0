package demo

import (
	"github.com/spf13/afero"

	"github.com/a-wai/git-buildpackage/internal/git"
)

const demoControl = `Source: hello
Section: devel
Priority: optional
Maintainer: Jane Doe <jane@example.org>

Package: hello
Architecture: any
Description: example package
`

var demoPatches = []struct {
	subject string
	body    string
	author  git.Identity
}{
	{
		subject: "Fix FTBFS with GCC 14",
		body:    "Add the missing include for printf.\n",
		author:  git.Identity{Name: "Jane Doe", Email: "jane@example.org", Date: "Sat, 1 Jan 2011 10:00:00 +0100"},
	},
	{
		subject: "Use the system zlib",
		body:    "Forwarded: not-needed\n\nGbp-Pq-Topic: debian\n",
		author:  git.Identity{Name: "John Roe", Email: "john@example.org", Date: "Sun, 2 Jan 2011 11:30:00 +0100"},
	},
}

// NewDemoRepository creates an in-memory source package with a two patch
// queue on patch-queue/main
func NewDemoRepository() *Repository {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "debian/control", []byte(demoControl), 0o644)

	r := NewRepository(fs)
	r.AddBranch("patch-queue/main", "main")
	for _, p := range demoPatches {
		r.AddCommit("patch-queue/main", p.subject, p.body, p.author)
	}
	return r
}
