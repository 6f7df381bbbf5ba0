// Package runtime provides the execution context for gbp-pq commands.
//
// It encapsulates shared dependencies and configuration needed by actions,
// such as the repository, the filesystem rooted at the working tree, the
// logger and the resolved settings.
package runtime
