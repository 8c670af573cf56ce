// Package errors provides sentinel errors and custom error types for the forktip application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy
var (
	// ErrUsage indicates a missing or invalid required argument
	ErrUsage = errors.New("usage error")

	// ErrPrecondition indicates the working tree or environment is not in a
	// state the requested operation can run from
	ErrPrecondition = errors.New("precondition not met")

	// ErrNetwork indicates a remote fetch or ls-remote failed
	ErrNetwork = errors.New("network failure")

	// ErrConflictPause indicates a rebase or merge stopped on a content
	// conflict; this is a controlled suspension, not a failure
	ErrConflictPause = errors.New("paused on conflict")

	// ErrTagConflict indicates a remote tag exists but points at a different commit
	ErrTagConflict = errors.New("tag points at a different commit")
)

// UsageError reports a bad or missing argument. It unwraps to ErrUsage.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// Is returns true if the target error is ErrUsage
func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}

// NewUsageError creates a new UsageError
func NewUsageError(format string, args ...interface{}) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// PreconditionError reports a working tree or environment that cannot support
// the requested operation (dirty checkout, missing companion tool).
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

// Is returns true if the target error is ErrPrecondition
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// NewPreconditionError creates a new PreconditionError
func NewPreconditionError(format string, args ...interface{}) *PreconditionError {
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}

// NetworkError wraps a failed remote operation. It unwraps to ErrNetwork and
// to the underlying cause.
type NetworkError struct {
	Remote string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("remote %s unreachable: %v", e.Remote, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrNetwork
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(remote string, err error) *NetworkError {
	return &NetworkError{Remote: remote, Err: err}
}

// ConflictPauseError represents a rebase/merge stopped by a content conflict.
// It carries the stage the workflow should resume at once the operator has
// resolved the conflict and continued the underlying operation.
type ConflictPauseError struct {
	ResumeStage string
	Message     string
}

func (e *ConflictPauseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("conflict: %s (resolve, then run git rebase --continue)", e.Message)
	}
	return "conflict (resolve, then run git rebase --continue)"
}

// Is returns true if the target error is ErrConflictPause
func (e *ConflictPauseError) Is(target error) bool {
	return target == ErrConflictPause
}

// NewConflictPauseError creates a new ConflictPauseError
func NewConflictPauseError(resumeStage string, format string, args ...interface{}) *ConflictPauseError {
	return &ConflictPauseError{
		ResumeStage: resumeStage,
		Message:     fmt.Sprintf(format, args...),
	}
}

// TagConflictError reports a remote tag that exists but resolves to a commit
// other than the expected one. The actual commit is carried so the caller can
// surface it; the core never auto-resolves the conflict.
type TagConflictError struct {
	TagName  string
	Expected string
	Actual   string
}

func (e *TagConflictError) Error() string {
	return fmt.Sprintf("tag %s points at %s, expected %s", e.TagName, e.Actual, e.Expected)
}

// Is returns true if the target error is ErrTagConflict
func (e *TagConflictError) Is(target error) bool {
	return target == ErrTagConflict
}

// NewTagConflictError creates a new TagConflictError
func NewTagConflictError(tagName, expected, actual string) *TagConflictError {
	return &TagConflictError{TagName: tagName, Expected: expected, Actual: actual}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
