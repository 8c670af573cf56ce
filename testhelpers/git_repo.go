// Package testhelpers builds real temporary git repositories for tests.
package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const textFileName = "test.txt"

// GitRepo represents a Git repository for testing purposes
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a new Git repository in the specified directory using 'git init'.
func NewGitRepo(dir string) (*GitRepo, error) {
	repo := &GitRepo{Dir: dir}

	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "-c", "core.autocrlf=false", "init", dir, "-b", "main")
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to init repo: %w", err)
	}

	// Git user is required for commits
	if err := repo.RunGitCommand("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := repo.RunGitCommand("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}

	return repo, nil
}

// NewGitRepoClonedFrom clones a repository from a local path using file transport.
func NewGitRepoClonedFrom(dir string, sourcePath string) (*GitRepo, error) {
	cmd := exec.Command("git", "clone", sourcePath, dir)
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to clone repo: %w", err)
	}

	repo := &GitRepo{Dir: dir}
	if err := repo.RunGitCommand("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := repo.RunGitCommand("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}
	return repo, nil
}

// RunGitCommand executes a git command in the repository directory.
func (r *GitRepo) RunGitCommand(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if os.Getenv("DEBUG") != "" {
		cmd.Stdout = os.Stderr
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

// RunGitCommandAndGetOutput executes a git command and returns its trimmed output.
func (r *GitRepo) RunGitCommandAndGetOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git command failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// CreateChangeAndCommit writes a file change and commits it
func (r *GitRepo) CreateChangeAndCommit(message string, prefix string) error {
	fileName := textFileName
	if prefix != "" {
		fileName = prefix + "_" + fileName
	}
	filePath := filepath.Join(r.Dir, fileName)

	if err := os.WriteFile(filePath, []byte(message), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := r.RunGitCommand("add", fileName); err != nil {
		return fmt.Errorf("failed to stage %s: %w", fileName, err)
	}
	if err := r.RunGitCommand("commit", "-m", message); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// CreateAndCheckoutBranch creates and checks out a branch
func (r *GitRepo) CreateAndCheckoutBranch(name string) error {
	return r.RunGitCommand("checkout", "-b", name)
}

// CheckoutBranch checks out an existing branch
func (r *GitRepo) CheckoutBranch(name string) error {
	return r.RunGitCommand("checkout", name)
}

// CreateTag creates a lightweight tag at HEAD or the given rev
func (r *GitRepo) CreateTag(name string, rev string) error {
	args := []string{"tag", name}
	if rev != "" {
		args = append(args, rev)
	}
	return r.RunGitCommand(args...)
}

// CreateAnnotatedTag creates an annotated tag at HEAD or the given rev
func (r *GitRepo) CreateAnnotatedTag(name, message, rev string) error {
	args := []string{"tag", "-a", name, "-m", message}
	if rev != "" {
		args = append(args, rev)
	}
	return r.RunGitCommand(args...)
}

// AddRemote registers a local path as a named remote
func (r *GitRepo) AddRemote(name, path string) error {
	return r.RunGitCommand("remote", "add", name, path)
}

// GetRef returns the commit hash a ref resolves to
func (r *GitRepo) GetRef(ref string) (string, error) {
	return r.RunGitCommandAndGetOutput("rev-parse", ref)
}

// GetCurrentBranch returns the checked-out branch name
func (r *GitRepo) GetCurrentBranch() (string, error) {
	return r.RunGitCommandAndGetOutput("branch", "--show-current")
}
