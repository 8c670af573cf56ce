package workflow

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"forktip.dev/forktip/internal/config"
	forktiperrors "forktip.dev/forktip/internal/errors"
	"forktip.dev/forktip/internal/git"
	"forktip.dev/forktip/internal/output"
	"forktip.dev/forktip/internal/resolve"
	"forktip.dev/forktip/internal/scope"
	"forktip.dev/forktip/internal/stamp"
)

// TipBranchPrefix prefixes every generated tip branch name
const TipBranchPrefix = "tip"

// BreadcrumbPrefix prefixes the merge-base breadcrumb tag recording the last
// integrated upstream commit, used by linear-history mode where the merge
// base cannot be re-derived after history has been flattened.
const BreadcrumbPrefix = "forktip-merge-base"

// shortHashLen is the length of the commit hash suffix in tip branch names
const shortHashLen = 10

// Machine drives the multi-stage workflows. One machine serves one working
// tree; the single-threaded checkout is what keeps at most one workflow in
// flight, there is no explicit locking.
type Machine struct {
	Repo      *git.Repository
	Env       *config.Env
	Caps      config.Capabilities
	Splog     *output.Splog
	Boundary  scope.BoundaryFinder
	Reorderer scope.Reorderer
	Bumper    scope.Bumper
	Reinvoker Reinvoker

	// TagPrefix is the literal version tags are expected to start with
	TagPrefix string
}

// TipOptions configures the branch-creation flow
type TipOptions struct {
	Slug          string
	Upstream      string // remote/branch
	Liminal       string // remote/branch kept in sync with the latest tip, or ""
	Mirror        string // local branch fast-forwarded to the upstream head, or ""
	AddVersionTag bool
	SkipRebase    bool

	// Resume is the stage token of a re-invocation, StageNone for a fresh run
	Resume Stage
	// Args is the original argument vector, preserved for re-invocation
	Args []string
}

// SortOptions configures the merge/sort flow
type SortOptions struct {
	RebaseRef     string
	LocalBranch   string
	PushRemote    string
	AddVersionTag bool
	ScopeBoundary string

	// Linear integrates by rebase instead of merge and records the
	// merge-base breadcrumb tag.
	Linear bool

	Resume Stage
	Args   []string
}

// RunTip runs the branch-creation flow: fetch upstream, create a uniquely
// named tip branch for the upstream head, rebase private commits onto it,
// then optionally stamp a version and update the liminal branch. Returns the
// tip branch name.
//
// Re-running against an unchanged upstream head finds the existing tip
// branch and merely checks it out.
func (m *Machine) RunTip(ctx context.Context, opts TipOptions) (string, error) {
	remote, _, ok := git.SplitRemoteRef(opts.Upstream)
	if !ok {
		return "", forktiperrors.NewUsageError("%s is not a remote branch ref (want remote/branch)", opts.Upstream)
	}

	var branchName string

	if opts.Resume == StageNone {
		clean, err := git.IsWorkingTreeClean(ctx)
		if err != nil {
			return "", err
		}
		if !clean {
			return "", forktiperrors.NewPreconditionError("working tree has uncommitted changes")
		}

		if err := git.FetchRemote(ctx, remote); err != nil {
			return "", err
		}
		if !m.Repo.RemoteTrackingExists(opts.Upstream) {
			return "", forktiperrors.NewUsageError("%s is not a branch on remote %s", opts.Upstream, remote)
		}

		upstreamRef := "refs/remotes/" + opts.Upstream
		head, err := m.Repo.ResolveCommit(upstreamRef)
		if err != nil {
			return "", err
		}
		date, err := m.Repo.CommitTime(upstreamRef)
		if err != nil {
			return "", err
		}

		versionPart := ""
		if opts.AddVersionTag {
			versionPart, err = m.upstreamVersion(ctx, remote)
			if err != nil {
				return "", err
			}
		}
		branchName = TipBranchName(opts.Slug, date, versionPart, head)

		// Idempotence by construction: one tip branch per upstream commit.
		if m.Repo.BranchExists(branchName) {
			if err := git.CheckoutBranch(ctx, branchName); err != nil {
				return "", err
			}
			m.Splog.Info("already tipped at %s, checked out %s", shortHash(head), branchName)
			return branchName, nil
		}

		if opts.Mirror != "" {
			if err := git.FastForwardBranch(ctx, opts.Mirror, upstreamRef); err != nil {
				return "", err
			}
			m.Splog.Debug("fast-forwarded mirror %s to %s", opts.Mirror, shortHash(head))
		}

		if err := git.CreateAndCheckoutBranch(ctx, branchName, ""); err != nil {
			return "", err
		}

		if !opts.SkipRebase {
			res, err := git.Rebase(ctx, upstreamRef)
			if err != nil {
				return "", err
			}
			if res == git.StepConflict {
				return "", m.pause(ctx, StageRebased, opts.Args,
					"rebase of private commits onto "+opts.Upstream)
			}
		}
	} else {
		// The rebase finished under the operator's control; the tip branch
		// is whatever is checked out now.
		var err error
		branchName, err = m.Repo.GetCurrentBranch()
		if err != nil {
			return "", err
		}
		m.Splog.Debug("resuming tip flow at %s on %s", opts.Resume, branchName)
	}

	if opts.AddVersionTag {
		if err := m.stampTip(ctx, remote, ""); err != nil {
			return "", err
		}
	}

	if opts.Liminal != "" {
		liminalRemote, liminalBranch, ok := git.SplitRemoteRef(opts.Liminal)
		if !ok {
			return "", forktiperrors.NewUsageError("%s is not a remote branch ref (want remote/branch)", opts.Liminal)
		}
		if err := git.PushBranch(ctx, liminalRemote, branchName, liminalBranch); err != nil {
			return "", err
		}
		m.Splog.Info("updated liminal branch %s", opts.Liminal)
	}

	if err := m.clearContinuation(); err != nil {
		return "", err
	}
	return branchName, nil
}

// RunSort runs the merge/sort flow: integrate upstream history into the
// local branch, sort private commits atop the integration, then optionally
// stamp a version tag, record the merge-base breadcrumb, and push.
func (m *Machine) RunSort(ctx context.Context, opts SortOptions) error {
	stage := opts.Resume

	if stage == StageNone {
		clean, err := git.IsWorkingTreeClean(ctx)
		if err != nil {
			return err
		}
		if !clean {
			return forktiperrors.NewPreconditionError("working tree has uncommitted changes")
		}

		if !m.Repo.BranchExists(opts.LocalBranch) {
			return forktiperrors.NewUsageError("branch %s does not exist", opts.LocalBranch)
		}
		if err := git.CheckoutBranch(ctx, opts.LocalBranch); err != nil {
			return err
		}

		if remote, _, ok := git.SplitRemoteRef(opts.RebaseRef); ok && m.hasRemote(remote) {
			if err := git.FetchRemote(ctx, remote); err != nil {
				return err
			}
		}

		var res git.StepResult
		if opts.Linear {
			res, err = git.Rebase(ctx, opts.RebaseRef)
		} else {
			res, err = git.Merge(ctx, opts.RebaseRef, fmt.Sprintf("Integrate %s into %s", opts.RebaseRef, opts.LocalBranch))
		}
		if err != nil {
			return err
		}
		if res == git.StepConflict {
			return m.pause(ctx, StageRebased, opts.Args, "integration of "+opts.RebaseRef)
		}
		stage = StageRebased
	}

	if stage < StageScoped {
		boundary, err := m.scopeBoundary(ctx, opts)
		if err != nil {
			return err
		}
		if !m.Caps.ReorderTool {
			return forktiperrors.NewPreconditionError("%s is required to sort commits by scope", config.ReorderToolName)
		}
		res, err := m.Reorderer.Reorder(ctx, boundary)
		if err != nil {
			return err
		}
		if res == git.StepConflict {
			return m.pause(ctx, StageScoped, opts.Args, "sorting private commits above "+shortHash(boundary))
		}
		stage = StageScoped
	}

	if opts.AddVersionTag {
		remote := m.stampRemote(opts)
		if err := m.stampTip(ctx, remote, opts.ScopeBoundary); err != nil {
			return err
		}
	}

	if opts.Linear {
		upstreamCommit, err := m.Repo.ResolveCommit(opts.RebaseRef)
		if err != nil {
			return err
		}
		crumb := BreadcrumbPrefix + "/" + opts.LocalBranch
		if err := git.MoveTag(ctx, crumb, upstreamCommit); err != nil {
			return err
		}
		m.Splog.Debug("recorded breadcrumb %s at %s", crumb, shortHash(upstreamCommit))
	}

	if opts.PushRemote != "" {
		if err := git.PushBranch(ctx, opts.PushRemote, opts.LocalBranch, opts.LocalBranch); err != nil {
			return err
		}
		m.Splog.Info("pushed %s to %s", opts.LocalBranch, opts.PushRemote)
	}

	return m.clearContinuation()
}

// shortHash shortens a commit hash for names and messages
func shortHash(commit string) string {
	if len(commit) > shortHashLen {
		return commit[:shortHashLen]
	}
	return commit
}

var (
	slugInvalidChars = regexp.MustCompile(`[^-_/.a-zA-Z0-9]+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
)

// SanitizeSlug reduces a free-form slug to characters git accepts in a ref
// name. Invalid runs become single hyphens, trailing slashes and dots drop.
func SanitizeSlug(slug string) string {
	slug = strings.TrimRight(slug, "/.")
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	slug = slugHyphenRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// TipBranchName composes the branch name for one upstream commit:
// tip/{slug}/{date}[-{version}]-{shortHash}.
func TipBranchName(slug, date, versionPart, commit string) string {
	parts := []string{date}
	if versionPart != "" {
		parts = append(parts, versionPart)
	}
	parts = append(parts, shortHash(commit))
	return TipBranchPrefix + "/" + SanitizeSlug(slug) + "/" + strings.Join(parts, "-")
}

// upstreamVersion resolves the largest version on the remote for embedding
// in the tip branch name. No tags at all is not an error.
func (m *Machine) upstreamVersion(ctx context.Context, remote string) (string, error) {
	snap, err := resolve.FetchTagSnapshot(ctx, m.Repo, remote, m.TagPrefix)
	if err != nil {
		return "", err
	}
	defer snap.Discard()

	largest, ok := snap.Largest()
	if !ok {
		return "", nil
	}
	return largest.Raw, nil
}

// stampTip resolves the base version from the remote and publishes the
// synthesized pre-release tag for the current position.
func (m *Machine) stampTip(ctx context.Context, remote, boundary string) error {
	snap, err := resolve.FetchTagSnapshot(ctx, m.Repo, remote, m.TagPrefix)
	if err != nil {
		return err
	}
	defer snap.Discard()

	base, ok := snap.Largest()
	if !ok {
		m.Splog.Warn("no version tags on %s, skipping version stamp", remote)
		return nil
	}

	// A local copy of the base tag pointing elsewhere than the remote's is
	// surfaced, never auto-resolved.
	if m.Repo.TagExists(base.Raw) {
		localCommit, err := m.Repo.TagCommit(base.Raw)
		if err != nil {
			return err
		}
		verdict, err := resolve.VerifyTagAtCommit(ctx, m.Repo, base.Raw, remote, localCommit)
		if verdict == resolve.TagConflict {
			return err
		}
		if err != nil {
			return err
		}
	}

	opts := stamp.Options{
		Base:          base,
		ScopeBoundary: boundary,
		Repo:          m.Repo,
		Bumper:        m.Bumper,
	}
	tagName, err := stamp.Synthesize(ctx, opts)
	if err != nil {
		return err
	}
	if err := stamp.Publish(ctx, opts, tagName); err != nil {
		return err
	}
	m.Splog.Info("stamped %s", tagName)
	return nil
}

// scopeBoundary returns the externally supplied boundary or derives one.
// Linear integration places private commits directly above the integrated
// ref, so the boundary is that ref's commit and no tool is consulted;
// merge integration needs the scope tool to find the private/public split.
func (m *Machine) scopeBoundary(ctx context.Context, opts SortOptions) (string, error) {
	if opts.ScopeBoundary != "" {
		return m.Repo.ResolveCommit(opts.ScopeBoundary)
	}
	if opts.Linear {
		return m.Repo.ResolveCommit(opts.RebaseRef)
	}
	if !m.Caps.ScopeTool {
		return "", forktiperrors.NewPreconditionError("no scope boundary given and %s is not available", config.ScopeToolName)
	}
	return m.Boundary.Boundary(ctx)
}

// stampRemote picks the remote whose tags seed a sort-flow stamp
func (m *Machine) stampRemote(opts SortOptions) string {
	if remote, _, ok := git.SplitRemoteRef(opts.RebaseRef); ok && m.hasRemote(remote) {
		return remote
	}
	if opts.PushRemote != "" {
		return opts.PushRemote
	}
	return "origin"
}

func (m *Machine) hasRemote(name string) bool {
	_, err := m.Repo.Remote(name)
	return err == nil
}

// pause queues the continuation for a conflict and returns the
// ConflictPauseError the CLI maps to a non-zero exit. The operator
// instruction depends on whether a background re-invocation could be queued:
// a paused rebase carries a todo list that re-launches forktip on its own,
// a paused merge does not.
func (m *Machine) pause(ctx context.Context, resume Stage, args []string, what string) error {
	gitDir, err := git.GetGitDir()
	if err != nil {
		return err
	}
	queued, err := m.Reinvoker.QueueResume(ctx, gitDir, resume, args)
	if err != nil {
		return err
	}
	m.Splog.Info("conflict during %s", what)
	m.Splog.Newline()
	if queued {
		m.Splog.Tip("resolve the conflict, then run 'git rebase --continue'; forktip resumes at %s automatically", resume)
	} else {
		m.Splog.Tip("resolve the conflict, run 'git merge --continue', then re-run this forktip command to resume at %s", resume)
	}
	return forktiperrors.NewConflictPauseError(resume.String(), "%s", what)
}

// Abort abandons a paused workflow: the in-progress rebase or merge is
// aborted and the pending continuation is discarded.
func (m *Machine) Abort(ctx context.Context) error {
	switch {
	case git.IsRebaseInProgress(ctx):
		if err := git.RebaseAbort(ctx); err != nil {
			return err
		}
		m.Splog.Info("aborted the in-progress rebase")
	case git.IsMergeInProgress(ctx):
		if err := git.MergeAbort(ctx); err != nil {
			return err
		}
		m.Splog.Info("aborted the in-progress merge")
	default:
		m.Splog.Info("no rebase or merge in progress")
	}
	return m.clearContinuation()
}

// Continue finishes the paused git operation once the operator has resolved
// the conflicts. A continued rebase replays the queued re-invocation on its
// own; a continued merge has no instruction queue, so the operator re-runs
// the original command next.
func (m *Machine) Continue(ctx context.Context) error {
	switch {
	case git.IsRebaseInProgress(ctx):
		res, err := git.RebaseContinue(ctx)
		if err != nil {
			return err
		}
		if res == git.StepConflict {
			m.Splog.Error("conflicts remain; resolve them and continue again")
			return forktiperrors.NewPreconditionError("rebase is still conflicted")
		}
		m.Splog.Info("rebase finished; the paused workflow resumes in the background")
	case git.IsMergeInProgress(ctx):
		res, err := git.MergeContinue(ctx)
		if err != nil {
			return err
		}
		if res == git.StepConflict {
			m.Splog.Error("conflicts remain; resolve them and continue again")
			return forktiperrors.NewPreconditionError("merge is still conflicted")
		}
		m.Splog.Info("merge finished; re-run the original forktip command to resume")
	default:
		return forktiperrors.NewPreconditionError("no rebase or merge in progress")
	}
	return nil
}

func (m *Machine) clearContinuation() error {
	gitDir, err := git.GetGitDir()
	if err != nil {
		return err
	}
	return config.ClearContinuationState(gitDir)
}
