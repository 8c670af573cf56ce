package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// StepResult represents the outcome of a rebase or merge step
type StepResult int

const (
	// StepDone indicates the operation completed
	StepDone StepResult = iota
	// StepConflict indicates the operation stopped on a content conflict
	StepConflict
)

// Rebase rebases the current branch onto the given revision.
// A conflict leaves the rebase in progress and returns StepConflict.
func Rebase(ctx context.Context, onto string) (StepResult, error) {
	_, err := RunGitCommandWithContext(ctx, "rebase", onto)
	if err != nil {
		if IsRebaseInProgress(ctx) {
			return StepConflict, nil
		}
		return StepDone, fmt.Errorf("rebase onto %s failed: %w", onto, err)
	}
	return StepDone, nil
}

// Merge merges the given revision into the current branch.
// A conflict leaves the merge in progress and returns StepConflict.
func Merge(ctx context.Context, rev, message string) (StepResult, error) {
	args := []string{"merge", "--no-edit"}
	if message != "" {
		args = append(args, "-m", message)
	}
	args = append(args, rev)
	_, err := RunGitCommandWithContext(ctx, args...)
	if err != nil {
		if IsMergeInProgress(ctx) {
			return StepConflict, nil
		}
		return StepDone, fmt.Errorf("merge of %s failed: %w", rev, err)
	}
	return StepDone, nil
}

// IsRebaseInProgress checks if a rebase is currently in progress
func IsRebaseInProgress(ctx context.Context) bool {
	gitDir, err := RunGitCommandWithContext(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return false
	}
	if _, err := os.Stat(filepath.Join(gitDir, "rebase-merge")); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(gitDir, "rebase-apply")); err == nil {
		return true
	}
	return false
}

// IsMergeInProgress checks if a merge is currently in progress
func IsMergeInProgress(ctx context.Context) bool {
	gitDir, err := RunGitCommandWithContext(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return false
	}
	_, err = os.Stat(filepath.Join(gitDir, "MERGE_HEAD"))
	return err == nil
}

// noEditorEnv suppresses the commit message editor when continuing a
// paused operation non-interactively.
var noEditorEnv = []string{"GIT_EDITOR=true"}

// RebaseContinue continues an in-progress rebase. Unresolved conflicts
// leave the rebase in progress and return StepConflict.
func RebaseContinue(ctx context.Context) (StepResult, error) {
	_, err := RunGitCommandWithEnv(ctx, noEditorEnv, "rebase", "--continue")
	if err != nil {
		if IsRebaseInProgress(ctx) {
			return StepConflict, nil
		}
		return StepConflict, fmt.Errorf("rebase continue failed: %w", err)
	}
	return StepDone, nil
}

// RebaseAbort aborts an in-progress rebase
func RebaseAbort(ctx context.Context) error {
	_, err := RunGitCommandWithContext(ctx, "rebase", "--abort")
	if err != nil {
		return fmt.Errorf("rebase abort failed: %w", err)
	}
	return nil
}

// MergeContinue concludes an in-progress merge. Unresolved conflicts
// leave the merge in progress and return StepConflict.
func MergeContinue(ctx context.Context) (StepResult, error) {
	_, err := RunGitCommandWithEnv(ctx, noEditorEnv, "merge", "--continue")
	if err != nil {
		if IsMergeInProgress(ctx) {
			return StepConflict, nil
		}
		return StepConflict, fmt.Errorf("merge continue failed: %w", err)
	}
	return StepDone, nil
}

// MergeAbort aborts an in-progress merge
func MergeAbort(ctx context.Context) error {
	_, err := RunGitCommandWithContext(ctx, "merge", "--abort")
	if err != nil {
		return fmt.Errorf("merge abort failed: %w", err)
	}
	return nil
}

// AppendRebaseTodo appends an instruction line to the pending rebase's todo
// list. The line runs once the operator issues git rebase --continue and the
// replay reaches it. Only valid while a rebase is paused.
func AppendRebaseTodo(ctx context.Context, line string) error {
	gitDir, err := RunGitCommandWithContext(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return fmt.Errorf("failed to locate git dir: %w", err)
	}

	todoPath := filepath.Join(gitDir, "rebase-merge", "git-rebase-todo")
	if _, err := os.Stat(todoPath); err != nil {
		return fmt.Errorf("no rebase in progress (missing %s): %w", todoPath, err)
	}

	f, err := os.OpenFile(todoPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open rebase todo: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to append rebase todo: %w", err)
	}
	return nil
}
