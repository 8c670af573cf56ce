package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const continuationFile = ".forktip_continue"

// ContinuationState records a workflow interrupted by a content conflict: the
// stage to resume at and the original command-line arguments, preserved
// verbatim for the re-invocation.
type ContinuationState struct {
	ResumeStage string   `json:"resumeStage"`
	Args        []string `json:"args"`
}

// GetContinuationState reads the continuation state from the git dir
func GetContinuationState(gitDir string) (*ContinuationState, error) {
	path := filepath.Join(gitDir, continuationFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no continuation state found")
		}
		return nil, fmt.Errorf("failed to read continuation state: %w", err)
	}

	var state ContinuationState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse continuation state: %w", err)
	}
	return &state, nil
}

// PersistContinuationState writes the continuation state into the git dir
func PersistContinuationState(gitDir string, state *ContinuationState) error {
	path := filepath.Join(gitDir, continuationFile)
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal continuation state: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// ClearContinuationState removes the continuation state file
func ClearContinuationState(gitDir string) error {
	err := os.Remove(filepath.Join(gitDir, continuationFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear continuation state: %w", err)
	}
	return nil
}
