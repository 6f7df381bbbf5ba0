// Package engine defines the version-control collaborator the patch-queue
// actions run against.
//
// Repository is the only view of git the actions have. The real
// implementation delegates to internal/git; tests substitute an in-memory
// fake so the export and import algorithms can run without a repository.
package engine
