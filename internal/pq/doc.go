// Package pq holds the naming rules and fixed locations shared by the
// patch-queue actions.
//
// A patch-queue branch is a regular branch name with PQBranchPrefix in front
// of it. The quilt series lives in PatchDir with its manifest in SeriesFile.
package pq
