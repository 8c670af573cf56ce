package resolve_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	forktiperrors "forktip.dev/forktip/internal/errors"
	"forktip.dev/forktip/internal/git"
	"forktip.dev/forktip/internal/resolve"
	"forktip.dev/forktip/testhelpers"
)

func TestFetchTagSnapshot(t *testing.T) {
	t.Run("keeps only version-like names", func(t *testing.T) {
		scene := testhelpers.NewSceneWithUpstream(t, func(s *testhelpers.Scene) error {
			if err := s.Upstream.CreateChangeAndCommit("initial", "init"); err != nil {
				return err
			}
			for _, tag := range []string{"v1.0.0", "v1.2.3", "2.0", "nightly", "release-notes"} {
				if err := s.Upstream.CreateTag(tag, ""); err != nil {
					return err
				}
			}
			return nil
		})

		repo, err := git.OpenRepository(scene.Dir)
		require.NoError(t, err)

		snap, err := resolve.FetchTagSnapshot(context.Background(), repo, "upstream", "v")
		require.NoError(t, err)
		defer snap.Discard()

		assert.ElementsMatch(t, []string{"v1.0.0", "v1.2.3", "2.0"}, snap.Names())
	})

	t.Run("fails with a network error for an unreachable remote", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			if err := s.Repo.CreateChangeAndCommit("initial", "init"); err != nil {
				return err
			}
			return s.Repo.AddRemote("upstream", "/nonexistent/repo/path")
		})

		repo, err := git.OpenRepository(scene.Dir)
		require.NoError(t, err)

		_, err = resolve.FetchTagSnapshot(context.Background(), repo, "upstream", "v")
		require.Error(t, err)
		assert.ErrorIs(t, err, forktiperrors.ErrNetwork)
	})
}

func TestSnapshotLargest(t *testing.T) {
	newSnapshot := func(t *testing.T, tags map[string]string) *resolve.TagSnapshot {
		t.Helper()
		scene := testhelpers.NewSceneWithUpstream(t, func(s *testhelpers.Scene) error {
			if err := s.Upstream.CreateChangeAndCommit("initial", "init"); err != nil {
				return err
			}
			if err := s.Upstream.CreateChangeAndCommit("second", "more"); err != nil {
				return err
			}
			for tag, rev := range tags {
				if err := s.Upstream.CreateTag(tag, rev); err != nil {
					return err
				}
			}
			return nil
		})

		repo, err := git.OpenRepository(scene.Dir)
		require.NoError(t, err)
		snap, err := resolve.FetchTagSnapshot(context.Background(), repo, "upstream", "v")
		require.NoError(t, err)
		t.Cleanup(snap.Discard)
		return snap
	}

	t.Run("falls through to the largest pre-release when the release tag is absent", func(t *testing.T) {
		snap := newSnapshot(t, map[string]string{
			"v1.2.9":      "HEAD",
			"v1.3.0-rc.1": "HEAD",
			"v1.3.0-rc.2": "HEAD",
		})
		got, ok := snap.Largest()
		require.True(t, ok)
		assert.Equal(t, "v1.3.0-rc.2", got.Raw)
	})

	t.Run("an existing release tag beats its own pre-releases", func(t *testing.T) {
		snap := newSnapshot(t, map[string]string{
			"v1.2.3":      "HEAD",
			"v1.2.3-rc.1": "HEAD~1",
		})
		got, ok := snap.Largest()
		require.True(t, ok)
		assert.Equal(t, "v1.2.3", got.Raw)
	})

	t.Run("reports no result for a tagless remote", func(t *testing.T) {
		snap := newSnapshot(t, nil)
		_, ok := snap.Largest()
		assert.False(t, ok)
	})
}

func TestVerifyTagAtCommit(t *testing.T) {
	newScene := func(t *testing.T) (*testhelpers.Scene, *git.Repository) {
		t.Helper()
		scene := testhelpers.NewSceneWithUpstream(t, func(s *testhelpers.Scene) error {
			if err := s.Upstream.CreateChangeAndCommit("initial", "init"); err != nil {
				return err
			}
			if err := s.Upstream.CreateTag("v1.0.0", ""); err != nil {
				return err
			}
			return s.Upstream.CreateChangeAndCommit("second", "more")
		})
		repo, err := git.OpenRepository(scene.Dir)
		require.NoError(t, err)
		return scene, repo
	}

	t.Run("present when the tag points at the expected commit", func(t *testing.T) {
		scene, repo := newScene(t)
		expected, err := scene.Upstream.GetRef("v1.0.0")
		require.NoError(t, err)

		verdict, err := resolve.VerifyTagAtCommit(context.Background(), repo, "v1.0.0", "upstream", expected)
		require.NoError(t, err)
		assert.Equal(t, resolve.TagPresent, verdict)
	})

	t.Run("conflict carries the actual commit when the tag points elsewhere", func(t *testing.T) {
		scene, repo := newScene(t)
		tagCommit, err := scene.Upstream.GetRef("v1.0.0")
		require.NoError(t, err)
		otherCommit, err := scene.Upstream.GetRef("HEAD")
		require.NoError(t, err)
		require.NotEqual(t, tagCommit, otherCommit)

		verdict, err := resolve.VerifyTagAtCommit(context.Background(), repo, "v1.0.0", "upstream", otherCommit)
		assert.Equal(t, resolve.TagConflict, verdict)
		require.Error(t, err)
		assert.ErrorIs(t, err, forktiperrors.ErrTagConflict)

		var conflict *forktiperrors.TagConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, tagCommit, conflict.Actual)
		assert.Equal(t, otherCommit, conflict.Expected)
	})

	t.Run("absent when the remote has no such tag", func(t *testing.T) {
		_, repo := newScene(t)
		verdict, err := resolve.VerifyTagAtCommit(context.Background(), repo, "v9.9.9", "upstream", "deadbeef")
		require.NoError(t, err)
		assert.Equal(t, resolve.TagAbsent, verdict)
	})
}
