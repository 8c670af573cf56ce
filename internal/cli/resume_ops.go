package cli

import (
	"github.com/spf13/cobra"
)

// newContinueCmd creates the continue command
func newContinueCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "continue",
		Short: "Conclude the paused git operation after resolving its conflicts",
		Long: `Conclude the rebase or merge a workflow paused on. A continued rebase
replays the queued re-invocation and the workflow resumes on its own; after a
continued merge, re-run the original forktip command to resume.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			machine, _, err := setup(*verbose)
			if err != nil {
				return err
			}
			return machine.Continue(cmd.Context())
		},
	}
}

// newAbortCmd creates the abort command
func newAbortCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "abort",
		Short: "Abandon a paused workflow and its in-progress git operation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			machine, _, err := setup(*verbose)
			if err != nil {
				return err
			}
			return machine.Abort(cmd.Context())
		},
	}
}
