package git

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// ListTagNames returns the short names of all local tags
func (r *Repository) ListTagNames() ([]string, error) {
	iter, err := r.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return names, nil
}

// TagExists reports whether a local tag of the given name exists
func (r *Repository) TagExists(name string) bool {
	_, err := r.Reference(plumbing.NewTagReferenceName(name), false)
	return err == nil
}

// TagCommit resolves a local tag to its underlying commit hash, dereferencing
// annotated tag objects.
func (r *Repository) TagCommit(name string) (string, error) {
	return r.ResolveCommit("refs/tags/" + name)
}

// CreateTag creates a lightweight tag at the given revision
func CreateTag(ctx context.Context, name, rev string) error {
	_, err := RunGitCommandWithContext(ctx, "tag", name, rev)
	if err != nil {
		return fmt.Errorf("failed to create tag %s: %w", name, err)
	}
	return nil
}

// MoveTag creates or moves a tag to the given revision
func MoveTag(ctx context.Context, name, rev string) error {
	_, err := RunGitCommandWithContext(ctx, "tag", "--force", name, rev)
	if err != nil {
		return fmt.Errorf("failed to move tag %s: %w", name, err)
	}
	return nil
}

// DeleteTag deletes a local tag. Deleting an absent tag is not an error.
func DeleteTag(ctx context.Context, name string) error {
	if _, err := RunGitCommandWithContext(ctx, "show-ref", "--verify", "--quiet", "refs/tags/"+name); err != nil {
		return nil
	}
	_, err := RunGitCommandWithContext(ctx, "tag", "-d", name)
	if err != nil {
		return fmt.Errorf("failed to delete tag %s: %w", name, err)
	}
	return nil
}
