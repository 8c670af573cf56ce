package testhelpers

import (
	"os"
	"path/filepath"
	"testing"

	"forktip.dev/forktip/internal/git"
)

// Scene represents a test scene with a temporary directory and Git repository.
type Scene struct {
	Dir  string
	Repo *GitRepo

	// Upstream is a second repository registered as the "upstream" remote of
	// Repo, standing in for the network peer over file transport.
	Upstream *GitRepo

	oldDir string
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene with a temporary directory and Git
// repository, changes into it, and points the git package at it. Cleanup is
// registered on t.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	tmpDir := t.TempDir()

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	repo, err := NewGitRepo(filepath.Join(tmpDir, "work"))
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{
		Dir:    repo.Dir,
		Repo:   repo,
		oldDir: oldDir,
	}

	if err := os.Chdir(repo.Dir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	git.SetWorkingDir(repo.Dir)
	git.ResetDefaultRepo()

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	t.Cleanup(func() {
		git.ResetDefaultRepo()
		git.SetWorkingDir("")
		_ = os.Chdir(oldDir)
	})

	return scene
}

// NewSceneWithUpstream creates a scene whose repository is a clone of a
// freshly built upstream repository, registered as the remote "upstream".
func NewSceneWithUpstream(t *testing.T, upstreamSetup SceneSetup) *Scene {
	t.Helper()

	tmpDir := t.TempDir()

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	upstream, err := NewGitRepo(filepath.Join(tmpDir, "upstream"))
	if err != nil {
		t.Fatalf("Failed to create upstream repo: %v", err)
	}

	scene := &Scene{
		Upstream: upstream,
		oldDir:   oldDir,
	}
	if upstreamSetup != nil {
		if err := upstreamSetup(scene); err != nil {
			t.Fatalf("Upstream setup failed: %v", err)
		}
	}

	repo, err := NewGitRepoClonedFrom(filepath.Join(tmpDir, "work"), upstream.Dir)
	if err != nil {
		t.Fatalf("Failed to clone upstream: %v", err)
	}
	if err := repo.AddRemote("upstream", upstream.Dir); err != nil {
		t.Fatalf("Failed to add upstream remote: %v", err)
	}

	scene.Dir = repo.Dir
	scene.Repo = repo

	if err := os.Chdir(repo.Dir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	git.SetWorkingDir(repo.Dir)
	git.ResetDefaultRepo()

	t.Cleanup(func() {
		git.ResetDefaultRepo()
		git.SetWorkingDir("")
		_ = os.Chdir(oldDir)
	})

	return scene
}
