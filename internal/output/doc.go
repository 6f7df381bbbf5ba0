// Package output provides the gbp-pq logger.
//
// Console messages are printed the way git-buildpackage prints them, with a
// "gbp:<level>:" prefix that is colored when the terminal supports it.
// Optionally every message is also written, with a timestamp, to a rotating
// log file.
package output
