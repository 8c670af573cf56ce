package workflow

import (
	"context"
	"fmt"
	"os"
	"strings"

	"forktip.dev/forktip/internal/config"
	"forktip.dev/forktip/internal/git"
)

// Reinvoker queues a background re-invocation of forktip that fires once the
// operator has resolved the conflict and continued the paused operation.
// The returned bool reports whether a re-invocation was actually queued;
// when it is false only the continuation record was persisted and the
// operator must re-run the command after resolving.
type Reinvoker interface {
	QueueResume(ctx context.Context, gitDir string, stage Stage, args []string) (bool, error)
}

// RebaseTodoReinvoker is the concrete adapter for git: it appends an exec
// instruction to the paused rebase's todo list. git refuses to foreground an
// external command from its own continuation, so the instruction sleeps
// briefly and launches the re-invocation as a detached background process.
// Console output may interleave with the operator's next prompt; that is an
// accepted cost.
//
// When no rebase todo exists (a merge conflict pauses without one), only the
// continuation file is persisted; the next forktip invocation picks it up
// once the working tree has settled.
type RebaseTodoReinvoker struct {
	Env *config.Env
}

// QueueResume persists the continuation record and, when a rebase todo is
// available, appends the background re-invocation line to it.
func (r *RebaseTodoReinvoker) QueueResume(ctx context.Context, gitDir string, stage Stage, args []string) (bool, error) {
	state := &config.ContinuationState{
		ResumeStage: stage.String(),
		Args:        args,
	}
	if err := config.PersistContinuationState(gitDir, state); err != nil {
		return false, err
	}

	if !git.IsRebaseInProgress(ctx) {
		return false, nil
	}

	command, err := r.resumeCommand(stage, args)
	if err != nil {
		return false, err
	}
	if err := git.AppendRebaseTodo(ctx, "exec "+command); err != nil {
		return false, err
	}
	return true, nil
}

// resumeCommand builds the detached background re-invocation. The original
// arguments are preserved verbatim; the stage token and argument vector ride
// in the environment.
func (r *RebaseTodoReinvoker) resumeCommand(stage Stage, args []string) (string, error) {
	var invocation string
	if r.Env != nil && r.Env.HasTaskRunner() {
		invocation = fmt.Sprintf("make -C %s %s",
			shellQuote(r.Env.RunnerRepo), shellQuote(r.Env.RunnerAction))
	} else {
		exe, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("failed to locate own executable: %w", err)
		}
		quoted := make([]string, 0, len(args)+1)
		quoted = append(quoted, shellQuote(exe))
		for _, arg := range args {
			quoted = append(quoted, shellQuote(arg))
		}
		invocation = strings.Join(quoted, " ")
	}

	env := fmt.Sprintf("%s=%s %s=%s",
		config.EnvResumeStage, shellQuote(stage.String()),
		config.EnvResumeArgs, shellQuote(config.EncodeResumeArgs(args)))

	return fmt.Sprintf("sh -c '(sleep 2; %s %s >/dev/null 2>&1 &)'",
		escapeSingleQuotes(env), escapeSingleQuotes(invocation)), nil
}

// shellQuote wraps a string in single quotes for POSIX shells
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// escapeSingleQuotes escapes a fragment for embedding inside an outer
// single-quoted sh -c string.
func escapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}
