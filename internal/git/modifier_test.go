package git

import (
	"testing"

	"github.com/stretchr/testify/require"

	pqerrors "github.com/a-wai/git-buildpackage/internal/errors"
)

func TestIdentityEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		identity Identity
		role     string
		expected []string
	}{
		{
			name:     "author with name and email",
			identity: Identity{Name: "foo", Email: "bar"},
			role:     "author",
			expected: []string{"GIT_AUTHOR_NAME=foo", "GIT_AUTHOR_EMAIL=bar"},
		},
		{
			name:     "committer with date",
			identity: Identity{Name: "foo", Email: "bar", Date: "2011-01-02 10:00:00 +0100"},
			role:     "committer",
			expected: []string{"GIT_COMMITTER_NAME=foo", "GIT_COMMITTER_EMAIL=bar", "GIT_COMMITTER_DATE=2011-01-02 10:00:00 +0100"},
		},
		{
			name:     "role is case insensitive",
			identity: Identity{Email: "bar"},
			role:     "AUTHOR",
			expected: []string{"GIT_AUTHOR_EMAIL=bar"},
		},
		{
			name:     "empty identity",
			identity: Identity{},
			role:     "author",
			expected: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, err := tt.identity.Env(tt.role)
			require.NoError(t, err)
			require.Equal(t, tt.expected, env)
		})
	}
}

func TestIdentityEnvRejectsUnknownRole(t *testing.T) {
	t.Parallel()

	_, err := Identity{Name: "foo", Email: "bar"}.Env("reviewer")
	require.ErrorIs(t, err, pqerrors.ErrInvalidRole)
}

func TestIdentityShorthands(t *testing.T) {
	t.Parallel()

	id := Identity{Name: "foo", Email: "bar"}
	require.Equal(t, []string{"GIT_AUTHOR_NAME=foo", "GIT_AUTHOR_EMAIL=bar"}, id.AuthorEnv())
	require.Equal(t, []string{"GIT_COMMITTER_NAME=foo", "GIT_COMMITTER_EMAIL=bar"}, id.CommitterEnv())
	require.True(t, id.IsComplete())
	require.False(t, Identity{Name: "foo"}.IsComplete())
	require.Equal(t, "foo <bar>", id.String())
}
