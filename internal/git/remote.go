package git

import (
	"context"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	forktiperrors "forktip.dev/forktip/internal/errors"
)

// RemoteRef is one advertised ref from a remote. Peeled entries carry the
// commit an annotated tag dereferences to (advertised as "name^{}").
type RemoteRef struct {
	Name   string
	Hash   string
	Peeled bool
}

// ListRemoteTags lists the tag refs a remote advertises in one round trip.
// Annotated tags produce both the tag object ref and a peeled entry.
func (r *Repository) ListRemoteTags(ctx context.Context, remoteName string) ([]RemoteRef, error) {
	remote, err := r.Remote(remoteName)
	if err != nil {
		return nil, forktiperrors.NewUsageError("unknown remote %s: %v", remoteName, err)
	}

	refs, err := remote.ListContext(ctx, &gogit.ListOptions{
		PeelingOption: gogit.AppendPeeled,
	})
	if err != nil {
		return nil, forktiperrors.NewNetworkError(remoteName, err)
	}

	var out []RemoteRef
	for _, ref := range refs {
		name := ref.Name().String()
		peeled := strings.HasSuffix(name, "^{}")
		name = strings.TrimSuffix(name, "^{}")
		if !strings.HasPrefix(name, "refs/tags/") {
			continue
		}
		out = append(out, RemoteRef{
			Name:   strings.TrimPrefix(name, "refs/tags/"),
			Hash:   ref.Hash().String(),
			Peeled: peeled,
		})
	}
	return out, nil
}

// FetchRemote fetches a remote, updating remote-tracking refs and tags.
func FetchRemote(ctx context.Context, remoteName string) error {
	_, err := RunGitCommandWithContext(ctx, "fetch", "--tags", remoteName)
	if err != nil {
		return forktiperrors.NewNetworkError(remoteName, err)
	}
	return nil
}

// RemoteTrackingExists reports whether a remote-tracking ref like
// "origin/master" exists locally.
func (r *Repository) RemoteTrackingExists(name string) bool {
	_, err := r.Reference(plumbing.NewRemoteReferenceName(splitRemoteRef(name)), false)
	return err == nil
}

// splitRemoteRef splits "origin/master" into its remote and branch parts.
func splitRemoteRef(name string) (string, string) {
	parts := strings.SplitN(name, "/", 2)
	if len(parts) != 2 {
		return name, ""
	}
	return parts[0], parts[1]
}

// SplitRemoteRef splits a "remote/branch" ref name. ok is false when the
// name has no remote part.
func SplitRemoteRef(name string) (remote string, branch string, ok bool) {
	remote, branch = splitRemoteRef(name)
	return remote, branch, branch != ""
}
