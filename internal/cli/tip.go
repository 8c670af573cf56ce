package cli

import (
	"github.com/spf13/cobra"

	"forktip.dev/forktip/internal/workflow"
)

// newTipCmd creates the tip command (branch-creation flow)
func newTipCmd(verbose *bool) *cobra.Command {
	var (
		liminal    string
		mirror     string
		versionTag bool
		skipRebase bool
	)

	cmd := &cobra.Command{
		Use:   "tip <slug> <upstreamRemoteBranch>",
		Short: "Create a tip branch: private commits rebased onto the upstream head",
		Long: `Create a uniquely named tip branch for the current upstream head and
rebase the private commits of the checked-out branch onto it. The branch name
encodes the slug, the upstream commit date, optionally the upstream version,
and a shortened commit hash.

Running tip again against an unchanged upstream head checks out the existing
branch and succeeds without creating anything.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			machine, env, err := setup(*verbose)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			resume, err := resolveResume(ctx, env, originalArgs())
			if err != nil {
				return err
			}

			branchName, err := machine.RunTip(ctx, workflow.TipOptions{
				Slug:          args[0],
				Upstream:      args[1],
				Liminal:       liminal,
				Mirror:        mirror,
				AddVersionTag: versionTag,
				SkipRebase:    skipRebase,
				Resume:        resume,
				Args:          originalArgs(),
			})
			if err != nil {
				return err
			}

			cmd.Println(branchName)
			return nil
		},
	}

	cmd.Flags().StringVar(&liminal, "liminal", "", "Remote branch (remote/branch) kept in sync with the latest tip")
	cmd.Flags().StringVar(&mirror, "mirror", "", "Local branch fast-forwarded to the upstream head")
	cmd.Flags().BoolVar(&versionTag, "version-tag", false, "Stamp the tip with a derived pre-release version tag")
	cmd.Flags().BoolVar(&skipRebase, "skip-rebase", false, "Create the tip branch without rebasing private commits")

	return cmd
}
