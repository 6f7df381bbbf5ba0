// Package common provides shared helper functions for CLI commands.
package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/a-wai/git-buildpackage/internal/config"
	"github.com/a-wai/git-buildpackage/internal/demo"
	"github.com/a-wai/git-buildpackage/internal/engine"
	"github.com/a-wai/git-buildpackage/internal/output"
	"github.com/a-wai/git-buildpackage/internal/runtime"
)

// ReportedError wraps an error that has already been logged
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string {
	return e.Err.Error()
}

func (e *ReportedError) Unwrap() error {
	return e.Err
}

// Run is a helper that provides a runtime context to a command's execution
// function. Errors returned by fn are logged before they are passed on.
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	ctx, err := NewContext(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = ctx.Splog.Close()
	}()

	if err := fn(ctx); err != nil {
		ctx.Splog.Error("%v", err)
		return &ReportedError{Err: err}
	}
	return nil
}

// NewContext opens the repository of the working directory, or the demo
// repository when GBP_PQ_DEMO is set, and resolves the configuration
func NewContext(cmd *cobra.Command) (*runtime.Context, error) {
	var (
		repo     engine.Repository
		demoFs   afero.Fs
		repoRoot string
	)
	if demo.IsDemoMode() {
		d := demo.NewDemoRepository()
		repo, demoFs = d, d.Fs
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		r, err := engine.NewRepository(wd)
		if err != nil {
			return nil, err
		}
		repo, repoRoot = r, r.Root()
	}

	cfg, err := config.Load(config.Options{RepoRoot: repoRoot, Flags: cmd.Flags()})
	if err != nil {
		return nil, err
	}

	splog, err := output.NewSplog(output.Options{
		Out:     cmd.OutOrStdout(),
		Err:     cmd.ErrOrStderr(),
		Verbose: cfg.Verbose,
		Color:   cfg.Color,
		LogFile: cfg.LogFile,
	})
	if err != nil {
		return nil, err
	}
	for _, warning := range cfg.Warnings {
		splog.Warn("%s", warning)
	}
	for _, file := range cfg.Files {
		splog.Debug("Read configuration from %s", file)
	}

	if demoFs != nil {
		return runtime.NewContextWithFs(cmd.Context(), repo, demoFs, splog, cfg), nil
	}
	return runtime.NewContext(cmd.Context(), repo, splog, cfg), nil
}

// RepoRelativePath turns a path given on the command line into one relative
// to the repository top level. Paths outside the repository are returned
// absolute.
func RepoRelativePath(ctx *runtime.Context, path string) (string, error) {
	if ctx.RepoRoot == "" || ctx.RepoRoot == "/" {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(ctx.RepoRoot, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return abs, nil
	}
	return rel, nil
}

// IsReported reports whether err has already been logged
func IsReported(err error) bool {
	var reported *ReportedError
	return errors.As(err, &reported)
}
