package runtime

import (
	"context"

	"github.com/spf13/afero"

	"github.com/a-wai/git-buildpackage/internal/config"
	"github.com/a-wai/git-buildpackage/internal/engine"
	"github.com/a-wai/git-buildpackage/internal/output"
)

// Context provides access to the repository and output for commands
type Context struct {
	Context context.Context
	Repo    engine.Repository
	// Fs is rooted at the repository top level; all paths handed to it are
	// relative to RepoRoot
	Fs       afero.Fs
	Splog    *output.Splog
	RepoRoot string
	Config   *config.Config
}

// NewContext creates a context for repo. The filesystem is the working tree
// of repo.
func NewContext(ctx context.Context, repo engine.Repository, splog *output.Splog, cfg *config.Config) *Context {
	return NewContextWithFs(ctx, repo, afero.NewBasePathFs(afero.NewOsFs(), repo.Root()), splog, cfg)
}

// NewContextWithFs creates a context with an explicit filesystem, such as an
// in-memory one
func NewContextWithFs(ctx context.Context, repo engine.Repository, fs afero.Fs, splog *output.Splog, cfg *config.Config) *Context {
	if splog == nil {
		splog = output.NewDiscardSplog()
	}
	if cfg == nil {
		cfg = &config.Config{PatchNumbers: true, TimeMachine: 1, Color: output.ColorAuto}
	}
	return &Context{
		Context:  ctx,
		Repo:     repo,
		Fs:       fs,
		Splog:    splog,
		RepoRoot: repo.Root(),
		Config:   cfg,
	}
}
