package cli

import (
	"github.com/spf13/cobra"

	"github.com/a-wai/git-buildpackage/internal/actions"
	"github.com/a-wai/git-buildpackage/internal/cli/common"
	pqerrors "github.com/a-wai/git-buildpackage/internal/errors"
	"github.com/a-wai/git-buildpackage/internal/runtime"
)

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <patch>",
		Short: "Add a single patch to the patch queue",
		Long: `Add a single patch to the patch queue, creating the patch-queue branch
if needed. Use --topic to record the subdirectory the patch is exported to.`,
		Args: func(_ *cobra.Command, args []string) error {
			switch {
			case len(args) == 0:
				return pqerrors.NewUsageError("No patch name given.")
			case len(args) > 1:
				return pqerrors.NewUsageError("Only one patch can be applied at a time.")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				path, err := common.RepoRelativePath(ctx, args[0])
				if err != nil {
					return err
				}
				return actions.ApplySingle(ctx, actions.ApplyOptions{
					PatchFile: path,
					Topic:     ctx.Config.Topic,
				})
			})
		},
	}
}
