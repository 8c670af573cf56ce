package git

import (
	"context"
	"fmt"
)

// CreateAndCheckoutBranch creates and checks out a new branch at the given start point
func CreateAndCheckoutBranch(ctx context.Context, branchName, startPoint string) error {
	args := []string{"checkout", "-b", branchName}
	if startPoint != "" {
		args = append(args, startPoint)
	}
	_, err := RunGitCommandWithContext(ctx, args...)
	if err != nil {
		return fmt.Errorf("failed to create and checkout branch %s: %w", branchName, err)
	}
	return nil
}

// CheckoutBranch checks out an existing branch
func CheckoutBranch(ctx context.Context, branchName string) error {
	_, err := RunGitCommandWithContext(ctx, "checkout", branchName)
	if err != nil {
		return fmt.Errorf("failed to checkout branch %s: %w", branchName, err)
	}
	return nil
}

// FastForwardBranch fast-forwards a local branch to the given ref without
// touching the working tree (the branch is not checked out).
func FastForwardBranch(ctx context.Context, branchName, toRef string) error {
	_, err := RunGitCommandWithContext(ctx, "fetch", ".", fmt.Sprintf("%s:%s", toRef, branchName))
	if err != nil {
		return fmt.Errorf("failed to fast-forward %s to %s: %w", branchName, toRef, err)
	}
	return nil
}

// PushBranch pushes a local ref to a branch on the remote, forcing the update.
func PushBranch(ctx context.Context, remote, localRef, remoteBranch string) error {
	_, err := RunGitCommandWithContext(ctx, "push", "--force", remote,
		fmt.Sprintf("%s:refs/heads/%s", localRef, remoteBranch))
	if err != nil {
		return fmt.Errorf("failed to push %s to %s/%s: %w", localRef, remote, remoteBranch, err)
	}
	return nil
}
