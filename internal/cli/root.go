// Package cli implements the gbp-pq command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/a-wai/git-buildpackage/internal/cli/common"
	"github.com/a-wai/git-buildpackage/internal/config"
	pqerrors "github.com/a-wai/git-buildpackage/internal/errors"
	"github.com/a-wai/git-buildpackage/internal/output"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gbp-pq [options] action",
		Short: "Maintain patches on a patch queue branch",
		Long: `Maintain the quilt patches of a Debian source package as commits on a
patch-queue branch.

The patch-queue branch of a branch <b> is patch-queue/<b>. Its commits
on top of <b> correspond to the patches listed in debian/patches/series.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return pqerrors.NewUsageError("Unknown action '%s'", args[0])
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return pqerrors.NewUsageError("No action given.")
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.Bool(config.KeyPatchNumbers, true, "Whether the patch files should start with a number")
	flags.Int(config.KeyTimeMachine, 1, "Go back in time N commits to find one the patch series applies to")
	flags.Bool(config.KeyForce, false, "In case of import even import if the patch-queue branch already exists")
	flags.String(config.KeyTopic, "", "In case of apply, the topic (subdirectory) to put the patch into")
	flags.BoolP(config.KeyVerbose, "v", false, "Verbose command execution")
	flags.String(config.KeyColor, string(output.ColorAuto), "Whether to use colored output (auto, on, off)")
	flags.String(config.KeyLogFile, "", "Also write the log to this file")

	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newRebaseCmd())
	rootCmd.AddCommand(newDropCmd())
	rootCmd.AddCommand(newApplyCmd())

	return rootCmd
}

// Execute runs rootCmd and returns the process exit status. Errors not yet
// logged by the command are logged here.
func Execute(ctx context.Context, rootCmd *cobra.Command) int {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if !common.IsReported(err) {
		colorFlag, _ := rootCmd.PersistentFlags().GetString(config.KeyColor)
		color, parseErr := output.ParseColorMode(colorFlag)
		if parseErr != nil {
			color = output.ColorAuto
		}
		splog, splogErr := output.NewSplog(output.Options{
			Out:   rootCmd.OutOrStdout(),
			Err:   rootCmd.ErrOrStderr(),
			Color: color,
		})
		if splogErr != nil {
			_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "gbp:error: %v\n", err)
			return 1
		}
		splog.Error("%v", err)
	}
	return 1
}
