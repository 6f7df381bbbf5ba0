// Package config loads gbp-pq settings.
//
// Settings are layered, lowest precedence first: built-in defaults,
// git-buildpackage configuration files, GBP_PQ_* environment variables and
// command line flags.
package config
