// Package workflow drives forktip's multi-stage integrate/sort/stamp
// sequences. A stage that stops on a content conflict persists a
// continuation and exits; a later re-invocation carrying the stage token
// skips completed stages and resumes exactly where the workflow paused.
package workflow

import (
	forktiperrors "forktip.dev/forktip/internal/errors"
)

// Stage identifies how far the current workflow has progressed
type Stage int

const (
	// StageNone means no stage has completed yet
	StageNone Stage = iota
	// StageRebased means upstream history has been integrated
	StageRebased
	// StageMerged means the integration merge has been committed
	StageMerged
	// StageScoped means private commits have been sorted atop the merge
	StageScoped
	// StageDone means the workflow finished
	StageDone
)

var stageNames = map[Stage]string{
	StageNone:    "NONE",
	StageRebased: "STAGE_REBASED",
	StageMerged:  "STAGE_MERGED",
	StageScoped:  "STAGE_SCOPED",
	StageDone:    "DONE",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseStage parses a stage token. The empty token is StageNone.
func ParseStage(token string) (Stage, error) {
	if token == "" {
		return StageNone, nil
	}
	for stage, name := range stageNames {
		if name == token {
			return stage, nil
		}
	}
	return StageNone, forktiperrors.NewUsageError("unknown resume stage %q", token)
}
