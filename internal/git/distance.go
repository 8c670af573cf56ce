package git

import (
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// CountCommits returns the number of commits reachable from head but not
// from base, the commit-distance used for pre-release counters.
func (r *Repository) CountCommits(base, head string) (int, error) {
	baseHash, err := r.ResolveRevision(plumbing.Revision(base + "^{commit}"))
	if err != nil {
		return 0, fmt.Errorf("failed to resolve base %s: %w", base, err)
	}
	headHash, err := r.ResolveRevision(plumbing.Revision(head + "^{commit}"))
	if err != nil {
		return 0, fmt.Errorf("failed to resolve head %s: %w", head, err)
	}

	if *baseHash == *headHash {
		return 0, nil
	}

	// Mark everything reachable from base, then walk from head counting
	// commits outside that set.
	excluded := map[plumbing.Hash]bool{}
	baseIter, err := r.Log(&gogit.LogOptions{From: *baseHash})
	if err != nil {
		return 0, fmt.Errorf("failed to walk from base: %w", err)
	}
	err = baseIter.ForEach(func(c *object.Commit) error {
		excluded[c.Hash] = true
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk from base: %w", err)
	}

	count := 0
	headIter, err := r.Log(&gogit.LogOptions{From: *headHash})
	if err != nil {
		return 0, fmt.Errorf("failed to walk from head: %w", err)
	}
	err = headIter.ForEach(func(c *object.Commit) error {
		if !excluded[c.Hash] {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk from head: %w", err)
	}

	return count, nil
}
