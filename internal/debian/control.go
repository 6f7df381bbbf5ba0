// Package debian reads the Debian packaging metadata gbp-pq needs.
package debian

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// ControlFile is the source package control file, relative to the package root
const ControlFile = "debian/control"

var (
	maintainerFieldRegex = regexp.MustCompile(`(?m)^Maintainer:[ \t]*(.*)$`)
	nameEmailRegex       = regexp.MustCompile(`^(.*[^ ]) *<(.*)>$`)
)

// Maintainer returns the name and email of the package maintainer declared
// in <dir>/debian/control. A missing or malformed Maintainer field yields
// empty strings and no error; only an unreadable control file is an error.
func Maintainer(fs afero.Fs, dir string) (string, string, error) {
	path := filepath.Join(dir, ControlFile)
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	m := maintainerFieldRegex.FindSubmatch(data)
	if m == nil {
		return "", "", nil
	}
	name, email, _ := ParseNameEmail(strings.TrimSpace(string(m[1])))
	return name, email, nil
}

// ParseNameEmail splits "Name <email>"
func ParseNameEmail(s string) (string, string, bool) {
	m := nameEmailRegex.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
