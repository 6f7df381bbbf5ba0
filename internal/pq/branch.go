package pq

import (
	"path"
	"strings"
)

const (
	// PQBranchPrefix is prepended to a branch name to form its patch-queue branch
	PQBranchPrefix = "patch-queue/"

	// PatchDir is the quilt patch directory, relative to the repository root
	PatchDir = "debian/patches"

	// SeriesName is the manifest file name inside a patch directory
	SeriesName = "series"
)

// SeriesFile is the manifest path, relative to the repository root
var SeriesFile = path.Join(PatchDir, SeriesName)

// IsPQBranch reports whether name is a patch-queue branch
func IsPQBranch(name string) bool {
	return strings.HasPrefix(name, PQBranchPrefix)
}

// PQBranchName returns the patch-queue branch for name.
// A name that already is a patch-queue branch is returned unchanged; callers
// are expected to check IsPQBranch first.
func PQBranchName(name string) string {
	if IsPQBranch(name) {
		return name
	}
	return PQBranchPrefix + name
}

// PQBranchBase returns the branch a patch-queue branch was created for.
// The boolean is false if name is not a patch-queue branch.
func PQBranchBase(name string) (string, bool) {
	if !IsPQBranch(name) {
		return "", false
	}
	return strings.TrimPrefix(name, PQBranchPrefix), true
}
