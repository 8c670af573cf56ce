package git

import (
	"context"
)

// IsWorkingTreeClean reports whether the working tree has no uncommitted
// changes, staged or unstaged. Untracked files do not count as dirt.
func IsWorkingTreeClean(ctx context.Context) (bool, error) {
	out, err := RunGitCommandWithContext(ctx, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return false, err
	}
	return out == "", nil
}
