package cli

import (
	"github.com/spf13/cobra"

	"github.com/a-wai/git-buildpackage/internal/actions"
	"github.com/a-wai/git-buildpackage/internal/cli/common"
	"github.com/a-wai/git-buildpackage/internal/runtime"
)

func newDropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop",
		Short: "Drop the patch-queue branch",
		Long:  `Drop (delete) the patch-queue branch associated to the current branch.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.Drop(ctx, actions.DropOptions{})
			})
		},
	}
}
