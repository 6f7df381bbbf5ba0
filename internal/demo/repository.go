// Package demo provides an in-memory engine.Repository. It backs the
// GBP_PQ_DEMO mode of the command line and the action tests.
package demo

import (
	"context"
	"crypto/sha1" //nolint:gosec // object names only
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/a-wai/git-buildpackage/internal/engine"
	"github.com/a-wai/git-buildpackage/internal/git"
)

// GitDir is the git directory of every demo repository, relative to its root
const GitDir = ".git"

// IsDemoMode returns true if GBP_PQ_DEMO environment variable is set
func IsDemoMode() bool {
	return os.Getenv("GBP_PQ_DEMO") != ""
}

// Commit is a commit of the in-memory history
type Commit struct {
	SHA     string
	Parent  string
	Subject string
	Body    string
	Author  git.Identity
	// Diff is the patch content following the "---" separator
	Diff string
}

// Message returns the full commit message
func (c *Commit) Message() string {
	if c.Body == "" {
		return c.Subject + "\n"
	}
	return c.Subject + "\n\n" + c.Body
}

// Repository simulates the git operations gbp-pq needs. Patch files are read
// from and written to Fs; history lives in memory.
type Repository struct {
	Fs      afero.Fs
	RootDir string

	// ApplyFailure, when set, is consulted before every ApplyPatch. start is
	// the revision the current branch was created from.
	ApplyFailure func(start, path string) bool
	// CommitTreeFailure, when set, is consulted before every CommitTree and
	// its error returned. start is as for ApplyFailure.
	CommitTreeFailure func(start string) error
	// CreateBranchErr is returned by every CreateBranch call when set
	CreateBranchErr error
	// RebaseResult is reported by Rebase
	RebaseResult git.RebaseResult

	// Calls records every mutating call, in order
	Calls []string
	// Reflog records the reasons passed to UpdateRef
	Reflog []string

	branches map[string]string
	starts   map[string]string
	commits  map[string]*Commit
	current  string
	index    []string
	counter  int
}

var _ engine.Repository = (*Repository)(nil)

// NewRepository creates a repository with a single "Initial upload" commit
// on main, checked out.
func NewRepository(fs afero.Fs) *Repository {
	r := &Repository{
		Fs:       fs,
		RootDir:  "/",
		branches: map[string]string{},
		starts:   map[string]string{},
		commits:  map[string]*Commit{},
		current:  "main",
	}
	r.branches["main"] = r.newCommit("", "Initial upload", "", git.Identity{Name: "Jane Doe", Email: "jane@example.org"}, "")
	_ = fs.MkdirAll(GitDir, 0o755)
	return r
}

func (r *Repository) newCommit(parent, subject, body string, author git.Identity, diff string) string {
	r.counter++
	sum := sha1.Sum([]byte(fmt.Sprintf("%d\x00%s\x00%s\x00%s", r.counter, parent, subject, body))) //nolint:gosec
	sha := hex.EncodeToString(sum[:])
	r.commits[sha] = &Commit{SHA: sha, Parent: parent, Subject: subject, Body: body, Author: author, Diff: diff}
	return sha
}

// AddCommit appends a commit to branch and returns its SHA
func (r *Repository) AddCommit(branch, subject, body string, author git.Identity) string {
	sha := r.newCommit(r.branches[branch], subject, body, author, fmt.Sprintf(" %s | 1 +\n", slug(subject)))
	r.branches[branch] = sha
	return sha
}

// AddBranch creates branch at rev without checking it out
func (r *Repository) AddBranch(branch, rev string) {
	sha, err := r.resolve(rev)
	if err != nil {
		panic(err)
	}
	r.branches[branch] = sha
}

// Checkout switches the current branch without recording a call
func (r *Repository) Checkout(branch string) {
	r.current = branch
}

// Current returns the checked out branch
func (r *Repository) Current() string {
	return r.current
}

// Branches returns all branch names, sorted
func (r *Repository) Branches() []string {
	names := make([]string, 0, len(r.branches))
	for name := range r.branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Commit returns the commit named by sha or branch
func (r *Repository) Commit(rev string) *Commit {
	sha, err := r.resolve(rev)
	if err != nil {
		return nil
	}
	return r.commits[sha]
}

// Log returns the commits in base..head, oldest first
func (r *Repository) Log(base, head string) ([]*Commit, error) {
	baseSHA, err := r.resolve(base)
	if err != nil {
		return nil, err
	}
	sha, err := r.resolve(head)
	if err != nil {
		return nil, err
	}

	var commits []*Commit
	for sha != "" && sha != baseSHA {
		c := r.commits[sha]
		commits = append([]*Commit{c}, commits...)
		sha = c.Parent
	}
	return commits, nil
}

func (r *Repository) resolve(rev string) (string, error) {
	if rev == "" || rev == "HEAD" {
		rev = r.current
	}
	if sha, ok := r.branches[rev]; ok {
		return sha, nil
	}
	if _, ok := r.commits[rev]; ok {
		return rev, nil
	}
	return "", fmt.Errorf("unknown revision %q", rev)
}

func (r *Repository) record(format string, args ...interface{}) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func (r *Repository) Root() string {
	return r.RootDir
}

func (r *Repository) CurrentBranch() (string, error) {
	return r.current, nil
}

func (r *Repository) HasBranch(name string) (bool, error) {
	_, ok := r.branches[name]
	return ok, nil
}

func (r *Repository) Head() (string, error) {
	return r.resolve("HEAD")
}

func (r *Repository) FirstParentCommits(rev string, limit int) ([]string, error) {
	sha, err := r.resolve(rev)
	if err != nil {
		return nil, err
	}
	shas := []string{}
	for sha != "" && len(shas) < limit {
		shas = append(shas, sha)
		sha = r.commits[sha].Parent
	}
	return shas, nil
}

func (r *Repository) GitDir(_ context.Context) (string, error) {
	return GitDir, nil
}

func (r *Repository) Status(_ context.Context, paths ...string) (string, error) {
	return fmt.Sprintf("On branch %s\nChanges in %s", r.current, strings.Join(paths, " ")), nil
}

func (r *Repository) CreateBranch(_ context.Context, name, rev string) error {
	r.record("branch %s %s", name, rev)
	if r.CreateBranchErr != nil {
		return r.CreateBranchErr
	}
	if _, ok := r.branches[name]; ok {
		return fmt.Errorf("a branch named '%s' already exists", name)
	}
	sha, err := r.resolve(rev)
	if err != nil {
		return err
	}
	r.branches[name] = sha
	r.starts[name] = sha
	return nil
}

func (r *Repository) DeleteBranch(_ context.Context, name string) error {
	r.record("branch -D %s", name)
	if _, ok := r.branches[name]; !ok {
		return fmt.Errorf("branch '%s' not found", name)
	}
	if name == r.current {
		return fmt.Errorf("cannot delete branch '%s' checked out", name)
	}
	delete(r.branches, name)
	delete(r.starts, name)
	return nil
}

func (r *Repository) CheckoutBranch(_ context.Context, name string) error {
	r.record("checkout %s", name)
	if _, ok := r.branches[name]; !ok {
		return fmt.Errorf("pathspec '%s' did not match any branch", name)
	}
	r.current = name
	r.index = nil
	return nil
}

// Rebase replays the commits of the current branch that are not on upstream
// on top of upstream, unless RebaseResult asks for a conflict.
func (r *Repository) Rebase(_ context.Context, upstream string) (git.RebaseResult, error) {
	r.record("rebase %s", upstream)
	if r.RebaseResult == git.RebaseConflict {
		return git.RebaseConflict, nil
	}
	onto, err := r.resolve(upstream)
	if err != nil {
		return git.RebaseConflict, err
	}

	own, err := r.ownCommits(onto)
	if err != nil {
		return git.RebaseConflict, err
	}
	head := onto
	for _, c := range own {
		head = r.newCommit(head, c.Subject, c.Body, c.Author, c.Diff)
	}
	r.branches[r.current] = head
	return git.RebaseDone, nil
}

// ownCommits returns the commits of the current branch that are not
// reachable from onto, oldest first
func (r *Repository) ownCommits(onto string) ([]*Commit, error) {
	reachable := map[string]bool{}
	for sha := onto; sha != ""; sha = r.commits[sha].Parent {
		reachable[sha] = true
	}
	sha, err := r.resolve("HEAD")
	if err != nil {
		return nil, err
	}
	var own []*Commit
	for ; sha != "" && !reachable[sha]; sha = r.commits[sha].Parent {
		own = append([]*Commit{r.commits[sha]}, own...)
	}
	return own, nil
}

var slugRegex = regexp.MustCompile(`[^A-Za-z0-9.]+`)

func slug(subject string) string {
	s := strings.Trim(slugRegex.ReplaceAllString(subject, "-"), "-.")
	if len(s) > 52 {
		s = strings.TrimRight(s[:52], "-.")
	}
	return s
}

func (r *Repository) FormatPatches(_ context.Context, base, head, outDir string, _ bool) ([]string, error) {
	r.record("format-patch %s..%s", base, head)
	commits, err := r.Log(base, head)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, nil
	}
	if err := r.Fs.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	files := make([]string, 0, len(commits))
	for i, c := range commits {
		var b strings.Builder
		fmt.Fprintf(&b, "From %s Mon Sep 17 00:00:00 2001\n", c.SHA)
		fmt.Fprintf(&b, "From: %s <%s>\n", c.Author.Name, c.Author.Email)
		if c.Author.Date != "" {
			fmt.Fprintf(&b, "Date: %s\n", c.Author.Date)
		}
		fmt.Fprintf(&b, "Subject: %s\n\n", c.Subject)
		if c.Body != "" {
			b.WriteString(c.Body)
			if !strings.HasSuffix(c.Body, "\n") {
				b.WriteString("\n")
			}
		}
		b.WriteString("---\n")
		b.WriteString(c.Diff)

		name := filepath.Join(outDir, fmt.Sprintf("%04d-%s.patch", i+1, slug(c.Subject)))
		if err := afero.WriteFile(r.Fs, name, []byte(b.String()), 0o644); err != nil {
			return nil, err
		}
		files = append(files, name)
	}
	return files, nil
}

func (r *Repository) ApplyPatch(_ context.Context, path string, strip int) error {
	r.record("apply -p%d %s", strip, path)
	data, err := afero.ReadFile(r.Fs, path)
	if err != nil {
		return fmt.Errorf("can't open patch '%s': %w", path, err)
	}
	if r.ApplyFailure != nil && r.ApplyFailure(r.starts[r.current], path) {
		return fmt.Errorf("patch failed: %s", path)
	}

	diff := string(data)
	if i := strings.Index(diff, "\n---\n"); i >= 0 {
		diff = diff[i+len("\n---\n"):]
	} else if strings.HasPrefix(diff, "---\n") {
		diff = strings.TrimPrefix(diff, "---\n")
	}
	r.index = append(r.index, diff)
	return nil
}

func (r *Repository) WriteTree(_ context.Context) (string, error) {
	return fmt.Sprintf("tree-%d", len(r.index)), nil
}

func (r *Repository) CommitTree(_ context.Context, tree, message string, parents []string, author git.Identity) (string, error) {
	r.record("commit-tree %s", tree)
	if len(parents) != 1 {
		return "", fmt.Errorf("expected one parent, got %d", len(parents))
	}
	if r.CommitTreeFailure != nil {
		if err := r.CommitTreeFailure(r.starts[r.current]); err != nil {
			return "", err
		}
	}
	subject, body, _ := strings.Cut(message, "\n")
	body = strings.TrimLeft(body, "\n")
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}

	var diff string
	if len(r.index) > 0 {
		diff = r.index[len(r.index)-1]
	}
	return r.newCommit(parents[0], subject, body, author, diff), nil
}

func (r *Repository) UpdateRef(_ context.Context, ref, sha, reason string) error {
	r.record("update-ref %s", ref)
	if ref != "HEAD" {
		return fmt.Errorf("unsupported ref %s", ref)
	}
	if _, ok := r.commits[sha]; !ok {
		return fmt.Errorf("unknown commit %s", sha)
	}
	r.branches[r.current] = sha
	r.Reflog = append(r.Reflog, reason)
	return nil
}
