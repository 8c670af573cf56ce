// Package scope adapts the optional companion tools forktip collaborates
// with: the scope-boundary finder, the scope reorderer, and the version-bump
// helper. Each is consumed as a black box behind an interface so tests and
// alternate tools can be swapped in.
package scope

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"forktip.dev/forktip/internal/config"
	forktiperrors "forktip.dev/forktip/internal/errors"
	"forktip.dev/forktip/internal/git"
)

// BoundaryFinder reports the commit marking the division between private
// commits and public upstream-shared history.
type BoundaryFinder interface {
	Boundary(ctx context.Context) (string, error)
}

// Reorderer reorders the commits above the scope boundary so private commits
// sit atop the integrated upstream history. It may stop on a content
// conflict like any rebase.
type Reorderer interface {
	Reorder(ctx context.Context, boundary string) (git.StepResult, error)
}

// Bumper creates or moves version tags and reports commit distance from a
// tag, honoring the normalization and local-only options.
type Bumper interface {
	CreateOrMoveTag(ctx context.Context, name, rev string) error
	DistanceFromTag(ctx context.Context, tag string) (int, error)
}

// ExecBoundaryFinder shells out to the scope-boundary companion tool
type ExecBoundaryFinder struct {
	Dir string
}

// Boundary runs the scope tool and returns the boundary commit it prints
func (f *ExecBoundaryFinder) Boundary(ctx context.Context) (string, error) {
	out, err := runTool(ctx, f.Dir, nil, config.ScopeToolName, "--boundary")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ExecReorderer shells out to the scope-sort companion tool
type ExecReorderer struct {
	Dir string
}

// Reorder runs the reorder tool against the given boundary. A non-zero exit
// that leaves a rebase in progress is a conflict, not a failure.
func (r *ExecReorderer) Reorder(ctx context.Context, boundary string) (git.StepResult, error) {
	_, err := runTool(ctx, r.Dir, nil, config.ReorderToolName, boundary)
	if err != nil {
		if git.IsRebaseInProgress(ctx) {
			return git.StepConflict, nil
		}
		return git.StepDone, err
	}
	return git.StepDone, nil
}

// ExecBumper shells out to the version-bump companion tool
type ExecBumper struct {
	Dir string
	Env *config.Env
}

// CreateOrMoveTag creates or moves a tag through the bump helper
func (b *ExecBumper) CreateOrMoveTag(ctx context.Context, name, rev string) error {
	args := []string{"--force"}
	if b.Env != nil && b.Env.BumpNoNormalize {
		args = append(args, "--no-normalize")
	}
	if b.Env != nil && b.Env.BumpLocalOnly {
		args = append(args, "--local")
	}
	args = append(args, name, rev)
	_, err := runTool(ctx, b.Dir, nil, config.BumpToolName, args...)
	return err
}

// DistanceFromTag reports the commit distance from a tag to HEAD
func (b *ExecBumper) DistanceFromTag(ctx context.Context, tag string) (int, error) {
	out, err := runTool(ctx, b.Dir, nil, config.BumpToolName, "--distance", tag)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, forktiperrors.NewPreconditionError("%s reported a non-integer distance %q", config.BumpToolName, out)
	}
	return n, nil
}

// GitBumper implements Bumper with plain git when the bump helper is absent
type GitBumper struct {
	Repo *git.Repository
}

// CreateOrMoveTag creates or moves a plain lightweight tag
func (b *GitBumper) CreateOrMoveTag(ctx context.Context, name, rev string) error {
	return git.MoveTag(ctx, name, rev)
}

// DistanceFromTag counts commits between the tag and HEAD
func (b *GitBumper) DistanceFromTag(ctx context.Context, tag string) (int, error) {
	return b.Repo.CountCommits("refs/tags/"+tag, "HEAD")
}

func runTool(ctx context.Context, dir string, env []string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", forktiperrors.NewGitCommandError(name, args, stdout.String(), stderr.String(), err)
	}
	return stdout.String(), nil
}
