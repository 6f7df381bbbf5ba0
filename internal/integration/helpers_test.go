package integration

import (
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/a-wai/git-buildpackage/testhelpers"
)

const (
	mainBranchName = "main"
	pqBranchName   = "patch-queue/main"
)

// =============================================================================
// Test Shell - A helper to make integration tests read like terminal sessions
// =============================================================================

// TestShell wraps a test scene and provides a fluent interface for running
// commands. Tests using this read like a series of terminal commands.
type TestShell struct {
	t          *testing.T
	scene      *testhelpers.Scene
	binaryPath string
	lastOutput string
}

// NewTestShell creates a shell-like test environment holding a minimal
// source package on main.
func NewTestShell(t *testing.T, binaryPath string) *TestShell {
	t.Helper()
	scene := testhelpers.NewScene(t, testhelpers.PackageSceneSetup)
	return &TestShell{t: t, scene: scene, binaryPath: binaryPath}
}

// Dir returns the working directory of the test shell.
func (s *TestShell) Dir() string {
	return s.scene.Dir
}

func (s *TestShell) env() []string {
	return append(os.Environ(),
		"GIT_CONFIG_GLOBAL=/dev/null",
		"GBP_CONF_FILES=/nonexistent/gbp.conf",
		"GBP_PQ_DEMO=",
		"NO_COLOR=1",
	)
}

// =============================================================================
// Command Execution
// =============================================================================

// Run executes a gbp-pq command (e.g., "import --time-machine=2")
func (s *TestShell) Run(args string) *TestShell {
	s.t.Helper()
	cmd := exec.Command(s.binaryPath, splitArgs(args)...)
	cmd.Dir = s.scene.Dir
	cmd.Env = s.env()
	output, err := cmd.CombinedOutput()
	s.lastOutput = string(output)
	require.NoError(s.t, err, "$ gbp-pq %s\n%s", args, s.lastOutput)
	return s
}

// RunExpectError executes a gbp-pq command and expects it to fail.
func (s *TestShell) RunExpectError(args string) *TestShell {
	s.t.Helper()
	cmd := exec.Command(s.binaryPath, splitArgs(args)...)
	cmd.Dir = s.scene.Dir
	cmd.Env = s.env()
	output, err := cmd.CombinedOutput()
	s.lastOutput = string(output)
	require.Error(s.t, err, "$ gbp-pq %s (expected error)\n%s", args, s.lastOutput)
	return s
}

// Git executes a raw git command
func (s *TestShell) Git(args string) *TestShell {
	s.t.Helper()
	cmd := exec.Command("git", splitArgs(args)...)
	cmd.Dir = s.scene.Dir
	cmd.Env = s.env()
	output, err := cmd.CombinedOutput()
	s.lastOutput = string(output)
	require.NoError(s.t, err, "$ git %s\n%s", args, s.lastOutput)
	return s
}

// Checkout switches to a branch using raw git
func (s *TestShell) Checkout(branch string) *TestShell {
	s.t.Helper()
	return s.Git("checkout " + branch)
}

// =============================================================================
// File Operations
// =============================================================================

// Commit writes a file and commits it with message
func (s *TestShell) Commit(filename, content, message string) *TestShell {
	s.t.Helper()
	err := s.scene.Repo.CommitFile(filename, content, message)
	require.NoError(s.t, err, "failed to commit %s", filename)
	return s
}

// ReadFile returns the content of a file in the working tree
func (s *TestShell) ReadFile(filename string) string {
	s.t.Helper()
	content, err := s.scene.Repo.ReadFile(filename)
	require.NoError(s.t, err, "failed to read %s", filename)
	return content
}

// =============================================================================
// Output Inspection
// =============================================================================

// Output returns the last command's output
func (s *TestShell) Output() string {
	return s.lastOutput
}

// OutputContains asserts the last output contains the given string
func (s *TestShell) OutputContains(substr string) *TestShell {
	s.t.Helper()
	require.Contains(s.t, s.lastOutput, substr)
	return s
}

// =============================================================================
// Assertions
// =============================================================================

// OnBranch asserts we're on the expected branch
func (s *TestShell) OnBranch(expected string) *TestShell {
	s.t.Helper()
	branch, err := s.scene.Repo.CurrentBranchName()
	require.NoError(s.t, err)
	require.Equal(s.t, expected, branch)
	return s
}

// HasBranches asserts the repo has exactly these branches
func (s *TestShell) HasBranches(branches ...string) *TestShell {
	s.t.Helper()
	testhelpers.ExpectBranches(s.t, s.scene.Repo, branches)
	return s
}

// QueueSubjects asserts the subjects of the patch-queue commits, oldest first
func (s *TestShell) QueueSubjects(expected ...string) *TestShell {
	s.t.Helper()
	subjects, err := s.scene.Repo.ListBranchCommitSubjects(mainBranchName, pqBranchName)
	require.NoError(s.t, err)
	require.Equal(s.t, expected, subjects)
	return s
}

// SameCommit asserts that two revisions resolve to the same commit
func (s *TestShell) SameCommit(a, b string) *TestShell {
	s.t.Helper()
	shaA, err := s.scene.Repo.GetRevision(a)
	require.NoError(s.t, err)
	shaB, err := s.scene.Repo.GetRevision(b)
	require.NoError(s.t, err)
	require.Equal(s.t, shaA, shaB, "%s and %s differ", a, b)
	return s
}

// =============================================================================
// Logging
// =============================================================================

// Log prints a message (useful for documenting test steps)
func (s *TestShell) Log(msg string) *TestShell {
	s.t.Log(msg)
	return s
}

// =============================================================================
// Utility Functions
// =============================================================================

// splitArgs splits a command string into args, respecting quotes
func splitArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := rune(0)

	for _, r := range s {
		switch {
		case r == '"' || r == '\'':
			switch {
			case inQuote && r == quoteChar:
				inQuote = false
			case !inQuote:
				inQuote = true
				quoteChar = r
			default:
				current.WriteRune(r)
			}
		case r == ' ' && !inQuote:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}
