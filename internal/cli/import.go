package cli

import (
	"github.com/spf13/cobra"

	"github.com/a-wai/git-buildpackage/internal/actions"
	"github.com/a-wai/git-buildpackage/internal/cli/common"
	"github.com/a-wai/git-buildpackage/internal/runtime"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Create a patch-queue branch from debian/patches",
		Long: `Create a patch-queue branch from the quilt patches listed in
debian/patches/series and switch to it.

With --time-machine=N, up to N commits of the current branch are tried,
newest first, until the series applies. With --force, an existing
patch-queue branch is replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				_, err := actions.Import(ctx, actions.ImportOptions{
					Tries: ctx.Config.TimeMachine,
					Force: ctx.Config.Force,
				})
				return err
			})
		},
	}
}
