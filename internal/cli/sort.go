package cli

import (
	"github.com/spf13/cobra"

	"forktip.dev/forktip/internal/workflow"
)

// newSortCmd creates the sort command (merge/sort flow)
func newSortCmd(verbose *bool) *cobra.Command {
	var (
		pushRemote    string
		versionTag    bool
		scopeBoundary string
		linear        bool
	)

	cmd := &cobra.Command{
		Use:   "sort <rebaseRef> <localBranch>",
		Short: "Integrate upstream history into a local branch and sort private commits above it",
		Long: `Integrate the given upstream ref into a local branch, then reorder the
branch's private commits so they sit above the integrated public history.

A content conflict pauses the workflow; resolve it, run git rebase
--continue, and forktip resumes at the interrupted stage automatically.`,
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

			return machine.RunSort(ctx, workflow.SortOptions{
				RebaseRef:     args[0],
				LocalBranch:   args[1],
				PushRemote:    pushRemote,
				AddVersionTag: versionTag,
				ScopeBoundary: scopeBoundary,
				Linear:        linear,
				Resume:        resume,
				Args:          originalArgs(),
			})
		},
	}

	cmd.Flags().StringVar(&pushRemote, "push-remote", "", "Remote to push the local branch to after sorting")
	cmd.Flags().BoolVar(&versionTag, "version-tag", false, "Stamp the result with a derived pre-release version tag")
	cmd.Flags().StringVar(&scopeBoundary, "scope-boundary", "", "Commit bounding private history (derived from the scope tool when omitted)")
	cmd.Flags().BoolVar(&linear, "linear", false, "Integrate by rebase instead of merge and record the merge-base breadcrumb tag")

	return cmd
}
