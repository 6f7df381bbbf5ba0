package cli

import (
	"github.com/spf13/cobra"

	"github.com/a-wai/git-buildpackage/internal/actions"
	"github.com/a-wai/git-buildpackage/internal/cli/common"
	"github.com/a-wai/git-buildpackage/internal/runtime"
)

func newRebaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebase",
		Short: "Rebase the patch-queue branch onto its base branch",
		Long: `Switch to the patch-queue branch associated to the current branch and
rebase it onto the current branch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.Rebase(ctx, actions.RebaseOptions{})
			})
		},
	}
}
