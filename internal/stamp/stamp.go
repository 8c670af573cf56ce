// Package stamp synthesizes pre-release tip version tags: it combines a
// resolved base version with a commit-distance suffix and publishes the
// result as an actual tag, transiently displacing the release tag so the
// pre-release can be created at all.
package stamp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"forktip.dev/forktip/internal/git"
	"forktip.dev/forktip/internal/scope"
	"forktip.dev/forktip/internal/version"
)

// DefaultStageLabel is the pre-release label used for tip stamps
const DefaultStageLabel = "tip"

// Options configures one synthesis
type Options struct {
	// Base is the resolved base version the stamp derives from
	Base version.Tag

	// ScopeBoundary is the ref bounding the distance computation; empty
	// means the current position.
	ScopeBoundary string

	// StageLabel is the pre-release label, DefaultStageLabel when empty
	StageLabel string

	Repo   *git.Repository
	Bumper scope.Bumper
}

func (o *Options) stageLabel() string {
	if o.StageLabel == "" {
		return DefaultStageLabel
	}
	return o.StageLabel
}

// Synthesize computes the new pre-release tag name:
// {base}{separator}{stageLabel}{identifierSeparator}{distance}. Separators
// follow SemVer unless the working tree carries a PEP440-style project
// marker, whose version grammar forbids them.
func Synthesize(ctx context.Context, opts Options) (string, error) {
	head := opts.ScopeBoundary
	if head == "" {
		head = "HEAD"
	}

	var distance int
	var err error
	if opts.ScopeBoundary == "" && opts.Bumper != nil {
		distance, err = opts.Bumper.DistanceFromTag(ctx, opts.Base.Raw)
	} else {
		distance, err = opts.Repo.CountCommits("refs/tags/"+opts.Base.Raw, head)
	}
	if err != nil {
		return "", fmt.Errorf("failed to compute distance from %s: %w", opts.Base.Raw, err)
	}

	root, err := git.GetRepoRoot()
	if err != nil {
		return "", err
	}

	if hasPEP440Marker(root) {
		return fmt.Sprintf("%s%s%d", opts.Base.Base(), opts.stageLabel(), distance), nil
	}
	return fmt.Sprintf("%s-%s.%d", opts.Base.Base(), opts.stageLabel(), distance), nil
}

// Publish creates the synthesized tag at the scoped head. Because the tag is
// a pre-release of the base version and tag creation refuses a pre-release
// while the conflicting release tag exists, the release tag is deleted
// first and restored unconditionally afterwards, including when creation
// fails. Creation failure is fatal to the whole workflow after the restore.
//
// A stale tag of the same synthesized name is deleted first, so re-running
// with an unchanged repository is idempotent.
func Publish(ctx context.Context, opts Options, tagName string) (err error) {
	head := opts.ScopeBoundary
	if head == "" {
		head = "HEAD"
	}

	if err := git.DeleteTag(ctx, tagName); err != nil {
		return err
	}

	releaseTag := opts.Base.Base()
	if opts.Repo.TagExists(releaseTag) {
		releaseCommit, resolveErr := opts.Repo.TagCommit(releaseTag)
		if resolveErr != nil {
			return fmt.Errorf("failed to resolve release tag %s: %w", releaseTag, resolveErr)
		}
		if err := git.DeleteTag(ctx, releaseTag); err != nil {
			return err
		}
		defer func() {
			restoreErr := git.CreateTag(ctx, releaseTag, releaseCommit)
			if err == nil {
				err = restoreErr
			}
		}()
	}

	if opts.Bumper != nil {
		if err := opts.Bumper.CreateOrMoveTag(ctx, tagName, head); err != nil {
			return fmt.Errorf("failed to create tag %s: %w", tagName, err)
		}
		return nil
	}
	if err := git.CreateTag(ctx, tagName, head); err != nil {
		return fmt.Errorf("failed to create tag %s: %w", tagName, err)
	}
	return nil
}

// hasPEP440Marker probes for a Python project marker at the repo root
func hasPEP440Marker(root string) bool {
	for _, name := range []string{"pyproject.toml", "setup.py"} {
		if _, err := os.Stat(filepath.Join(root, name)); err == nil {
			return true
		}
	}
	return false
}
