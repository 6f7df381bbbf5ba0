package git

import (
	"fmt"
	"strings"

	pqerrors "github.com/a-wai/git-buildpackage/internal/errors"
)

// Roles an Identity can be exported for
const (
	RoleAuthor    = "author"
	RoleCommitter = "committer"
)

// Identity stores authorship or committer information. Empty fields are left
// for git to fill in from its configuration.
type Identity struct {
	Name  string
	Email string
	Date  string
}

// IsComplete reports whether both name and email are set
func (i Identity) IsComplete() bool {
	return i.Name != "" && i.Email != ""
}

func (i Identity) String() string {
	return fmt.Sprintf("%s <%s>", i.Name, i.Email)
}

// Env returns the identity as GIT_<ROLE>_* environment assignments.
// role is "author" or "committer", matched case-insensitively.
func (i Identity) Env(role string) ([]string, error) {
	who := strings.ToUpper(role)
	if who != "AUTHOR" && who != "COMMITTER" {
		return nil, fmt.Errorf("%q: %w", role, pqerrors.ErrInvalidRole)
	}

	var env []string
	if i.Name != "" {
		env = append(env, fmt.Sprintf("GIT_%s_NAME=%s", who, i.Name))
	}
	if i.Email != "" {
		env = append(env, fmt.Sprintf("GIT_%s_EMAIL=%s", who, i.Email))
	}
	if i.Date != "" {
		env = append(env, fmt.Sprintf("GIT_%s_DATE=%s", who, i.Date))
	}
	return env, nil
}

// AuthorEnv returns the identity as author environment
func (i Identity) AuthorEnv() []string {
	env, _ := i.Env(RoleAuthor)
	return env
}

// CommitterEnv returns the identity as committer environment
func (i Identity) CommitterEnv() []string {
	env, _ := i.Env(RoleCommitter)
	return env
}
