// Package resolve locates version tags on a remote: it snapshots the
// remote's tag names in one round trip, finds the largest release and
// pre-release within the snapshot, and verifies a specific tag against a
// specific commit.
package resolve

import (
	"context"
	"unicode"

	forktiperrors "forktip.dev/forktip/internal/errors"
	"forktip.dev/forktip/internal/git"
	"forktip.dev/forktip/internal/version"
)

// TagSnapshot is a single-use snapshot of a remote's tag names, created by
// one network round trip and discarded at the end of the resolution
// operation. No caller may assume it survives across operations.
type TagSnapshot struct {
	Remote string

	names   []string
	commits map[string]string // tag name -> commit hash, annotated tags dereferenced
}

// FetchTagSnapshot lists the remote's tag refs in one round trip. Only names
// passing the version prefilter (starting with the configured prefix or a
// digit) are kept; the prefilter is deliberately loose, precise
// classification happens at parse time.
func FetchTagSnapshot(ctx context.Context, repo *git.Repository, remoteName, prefix string) (*TagSnapshot, error) {
	refs, err := repo.ListRemoteTags(ctx, remoteName)
	if err != nil {
		return nil, err
	}

	snap := &TagSnapshot{
		Remote:  remoteName,
		commits: map[string]string{},
	}
	for _, ref := range refs {
		if ref.Peeled {
			// Peeled entry overrides the annotated tag object's own hash.
			snap.commits[ref.Name] = ref.Hash
			continue
		}
		if !versionLike(ref.Name, prefix) {
			continue
		}
		snap.names = append(snap.names, ref.Name)
		if _, ok := snap.commits[ref.Name]; !ok {
			snap.commits[ref.Name] = ref.Hash
		}
	}
	return snap, nil
}

// Discard drops the snapshot's contents. Idempotent; defer-friendly.
func (s *TagSnapshot) Discard() {
	s.names = nil
	s.commits = nil
}

// Names returns the snapshot's tag names
func (s *TagSnapshot) Names() []string {
	return s.names
}

// Contains reports whether the snapshot holds a tag of the given name
func (s *TagSnapshot) Contains(name string) bool {
	_, ok := s.commits[name]
	return ok
}

// LargestBase returns the tag with the largest major.minor.patch triple in
// the snapshot.
func (s *TagSnapshot) LargestBase() (version.Tag, bool) {
	return version.LargestBase(s.names)
}

// LargestFull returns the largest tag under the full ordering among snapshot
// tags sharing base's triple.
func (s *TagSnapshot) LargestFull(base version.Tag) (version.Tag, bool) {
	return version.LargestFull(s.names, base)
}

// Largest resolves the effective largest version in the snapshot: the
// largest basevers family is located first; if the plain release tag of that
// family actually exists it wins over every pre-release, otherwise the
// largest pre-release under the full ordering is returned.
func (s *TagSnapshot) Largest() (version.Tag, bool) {
	base, ok := s.LargestBase()
	if !ok {
		return version.Tag{}, false
	}
	if s.Contains(base.Base()) {
		if t, ok := version.Parse(base.Base()); ok {
			return t, true
		}
	}
	if full, ok := s.LargestFull(base); ok {
		return full, true
	}
	return base, true
}

// TagVerdict is the outcome of verifying a remote tag against a commit
type TagVerdict int

const (
	// TagAbsent means the remote has no tag of that name
	TagAbsent TagVerdict = iota
	// TagPresent means the remote tag resolves to the expected commit
	TagPresent
	// TagConflict means the remote tag resolves to a different commit
	TagConflict
)

// VerifyTagAtCommit resolves the remote's tag to its underlying commit in
// one round trip and compares it to expectedCommit. On TagConflict the
// returned error carries the actual commit; the caller decides how to react,
// the resolver never auto-resolves.
func VerifyTagAtCommit(ctx context.Context, repo *git.Repository, tagName, remoteName, expectedCommit string) (TagVerdict, error) {
	refs, err := repo.ListRemoteTags(ctx, remoteName)
	if err != nil {
		return TagAbsent, err
	}

	var direct, peeled string
	for _, ref := range refs {
		if ref.Name != tagName {
			continue
		}
		if ref.Peeled {
			peeled = ref.Hash
		} else {
			direct = ref.Hash
		}
	}
	if direct == "" && peeled == "" {
		return TagAbsent, nil
	}

	actual := direct
	if peeled != "" {
		actual = peeled
	}
	if actual != expectedCommit {
		return TagConflict, forktiperrors.NewTagConflictError(tagName, expectedCommit, actual)
	}
	return TagPresent, nil
}

// versionLike is the glob-level prefilter for remote tag names: anything
// starting with the configured prefix or a digit.
func versionLike(name, prefix string) bool {
	if name == "" {
		return false
	}
	if prefix != "" && len(name) >= len(prefix) && name[:len(prefix)] == prefix {
		return true
	}
	return unicode.IsDigit(rune(name[0]))
}
