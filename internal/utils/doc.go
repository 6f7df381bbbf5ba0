// Package utils provides filesystem helpers shared by the gbp-pq actions.
//
// Everything here works on an afero.Fs so the actions can run against the
// real working tree or an in-memory filesystem in tests.
package utils
