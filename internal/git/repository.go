package git

import (
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repository wraps a go-git repository
type Repository struct {
	*gogit.Repository
	path string
}

// OpenRepository opens a git repository at the given path
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	return &Repository{
		Repository: repo,
		path:       absPath,
	}, nil
}

var defaultRepo *Repository

// InitDefaultRepo initializes the default repository from the runner's working directory
func InitDefaultRepo() error {
	if defaultRepo != nil {
		return nil // Already initialized
	}

	root, err := GetRepoRoot()
	if err != nil {
		return err
	}

	repo, err := OpenRepository(root)
	if err != nil {
		return err
	}

	defaultRepo = repo
	return nil
}

// ResetDefaultRepo clears the default repository so the next InitDefaultRepo
// re-opens it. Used by tests that switch working directories.
func ResetDefaultRepo() {
	defaultRepo = nil
}

// GetDefaultRepo returns the default repository (must call InitDefaultRepo first)
func GetDefaultRepo() (*Repository, error) {
	if defaultRepo == nil {
		return nil, fmt.Errorf("repository not initialized, call InitDefaultRepo first")
	}
	return defaultRepo, nil
}

// GetRepoRoot returns the root directory of the working tree
func GetRepoRoot() (string, error) {
	root, err := RunGitCommand("rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not inside a git repository: %w", err)
	}
	return root, nil
}

// GetGitDir returns the repository's .git directory
func GetGitDir() (string, error) {
	dir, err := RunGitCommand("rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", fmt.Errorf("failed to locate git dir: %w", err)
	}
	return dir, nil
}

// ResolveCommit resolves a ref name to its commit hash, dereferencing
// annotated tags.
func (r *Repository) ResolveCommit(ref string) (string, error) {
	hash, err := r.ResolveRevision(plumbing.Revision(ref + "^{commit}"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", ref, err)
	}
	return hash.String(), nil
}

// CommitTime returns the committer timestamp of a ref in YYYY-MM-DD form.
func (r *Repository) CommitTime(ref string) (string, error) {
	hash, err := r.ResolveRevision(plumbing.Revision(ref + "^{commit}"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", ref, err)
	}
	commit, err := r.CommitObject(*hash)
	if err != nil {
		return "", fmt.Errorf("failed to read commit %s: %w", hash, err)
	}
	return commit.Committer.When.UTC().Format("2006-01-02"), nil
}

// GetCurrentBranch returns the short name of the checked-out branch
func (r *Repository) GetCurrentBranch() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached")
	}
	return head.Name().Short(), nil
}

// BranchExists reports whether a local branch of the given name exists
func (r *Repository) BranchExists(name string) bool {
	_, err := r.Reference(plumbing.NewBranchReferenceName(name), false)
	return err == nil
}
