package cli

import (
	"github.com/spf13/cobra"

	"github.com/a-wai/git-buildpackage/internal/actions"
	"github.com/a-wai/git-buildpackage/internal/cli/common"
	"github.com/a-wai/git-buildpackage/internal/runtime"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the patch queue into debian/patches",
		Long: `Export the patch queue associated to the current branch into a quilt
patch series in debian/patches/ and update the series file.

When run on a patch-queue branch, its base branch is checked out first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				_, err := actions.Export(ctx, actions.ExportOptions{
					PatchNumbers: ctx.Config.PatchNumbers,
				})
				return err
			})
		},
	}
}
