// Package cli wires the forktip commands: argument parsing, environment
// resolution, and the mapping from workflow outcomes to exit codes.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"forktip.dev/forktip/internal/config"
	forktiperrors "forktip.dev/forktip/internal/errors"
	"forktip.dev/forktip/internal/git"
	"forktip.dev/forktip/internal/output"
	"forktip.dev/forktip/internal/scope"
	"forktip.dev/forktip/internal/workflow"
)

// DefaultTagPrefix is the literal version tags are expected to start with
const DefaultTagPrefix = "v"

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "forktip",
		Short: "Forktip maintains a long-lived fork: it integrates upstream changes, reorders private commits, and stamps tip versions",
		Long: `Forktip maintains a long-lived fork of an upstream source tree. It
integrates upstream changes into a local line of work while preserving or
reordering the fork's private commits, and stamps the result with a derived,
sortable version identifier. A workflow interrupted by a content conflict
resumes automatically once the conflict is resolved.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output")

	rootCmd.AddCommand(newTipCmd(&verbose))
	rootCmd.AddCommand(newSortCmd(&verbose))
	rootCmd.AddCommand(newContinueCmd(&verbose))
	rootCmd.AddCommand(newAbortCmd(&verbose))

	return rootCmd
}

// setup resolves the environment, opens the repository, and assembles the
// workflow machine shared by both commands.
func setup(verbose bool) (*workflow.Machine, *config.Env, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, nil, err
	}

	if err := git.InitDefaultRepo(); err != nil {
		return nil, nil, forktiperrors.NewUsageError("not a git repository: %v", err)
	}
	repo, err := git.GetDefaultRepo()
	if err != nil {
		return nil, nil, err
	}

	splog := output.NewSplog()
	splog.SetVerbose(verbose)

	caps := config.ResolveCapabilities()

	var bumper scope.Bumper
	if caps.BumpTool {
		bumper = &scope.ExecBumper{Env: env}
	} else {
		bumper = &scope.GitBumper{Repo: repo}
	}

	machine := &workflow.Machine{
		Repo:      repo,
		Env:       env,
		Caps:      caps,
		Splog:     splog,
		Boundary:  &scope.ExecBoundaryFinder{},
		Reorderer: &scope.ExecReorderer{},
		Bumper:    bumper,
		Reinvoker: &workflow.RebaseTodoReinvoker{Env: env},
		TagPrefix: DefaultTagPrefix,
	}
	return machine, env, nil
}

// resolveResume determines which stage a run should start at. An explicit
// environment token wins and must agree with the persisted continuation; a
// persisted continuation with no token is honored only when the operator
// re-ran the identical command and the paused operation has settled.
func resolveResume(ctx context.Context, env *config.Env, args []string) (workflow.Stage, error) {
	gitDir, err := git.GetGitDir()
	if err != nil {
		return workflow.StageNone, err
	}

	if env.ResumeStage != "" {
		stage, err := workflow.ParseStage(env.ResumeStage)
		if err != nil {
			return workflow.StageNone, err
		}
		state, stateErr := config.GetContinuationState(gitDir)
		if stateErr == nil && state.ResumeStage != stage.String() {
			return workflow.StageNone, forktiperrors.NewUsageError(
				"resume token %s does not match pending continuation %s", stage, state.ResumeStage)
		}
		return stage, nil
	}

	state, err := config.GetContinuationState(gitDir)
	if err != nil {
		return workflow.StageNone, nil
	}
	if git.IsRebaseInProgress(ctx) || git.IsMergeInProgress(ctx) {
		return workflow.StageNone, forktiperrors.NewPreconditionError(
			"an operation is still in progress; resolve it and run 'git rebase --continue' first")
	}
	if !sameArgs(state.Args, args) {
		return workflow.StageNone, nil
	}
	return workflow.ParseStage(state.ResumeStage)
}

func sameArgs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// originalArgs returns the argument vector preserved for re-invocation
func originalArgs() []string {
	return os.Args[1:]
}
