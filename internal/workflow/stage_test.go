package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forktip.dev/forktip/internal/config"
	forktiperrors "forktip.dev/forktip/internal/errors"
)

func TestStageRoundTrip(t *testing.T) {
	for _, stage := range []Stage{StageNone, StageRebased, StageMerged, StageScoped, StageDone} {
		parsed, err := ParseStage(stage.String())
		require.NoError(t, err)
		assert.Equal(t, stage, parsed)
	}
}

func TestParseStage(t *testing.T) {
	t.Run("empty token is StageNone", func(t *testing.T) {
		stage, err := ParseStage("")
		require.NoError(t, err)
		assert.Equal(t, StageNone, stage)
	})

	t.Run("unknown token is a usage error", func(t *testing.T) {
		_, err := ParseStage("STAGE_BOGUS")
		require.Error(t, err)
		assert.ErrorIs(t, err, forktiperrors.ErrUsage)
	})
}

func TestResumeCommand(t *testing.T) {
	t.Run("invokes the binary directly with quoted original arguments", func(t *testing.T) {
		r := &RebaseTodoReinvoker{Env: &config.Env{}}
		cmd, err := r.resumeCommand(StageScoped, []string{"sort", "upstream/main", "my branch"})
		require.NoError(t, err)
		assert.Contains(t, cmd, "sleep 2")
		assert.Contains(t, cmd, "FORKTIP_RESUME=")
		assert.Contains(t, cmd, "STAGE_SCOPED")
		assert.Contains(t, cmd, `my branch`)
		assert.Contains(t, cmd, " &)")
	})

	t.Run("wraps the re-invocation in the task runner when configured", func(t *testing.T) {
		r := &RebaseTodoReinvoker{Env: &config.Env{RunnerRepo: "/srv/repo", RunnerAction: "resume-tip"}}
		cmd, err := r.resumeCommand(StageRebased, []string{"tip", "work", "upstream/main"})
		require.NoError(t, err)
		assert.Contains(t, cmd, "make -C")
		assert.Contains(t, cmd, "/srv/repo")
		assert.Contains(t, cmd, "resume-tip")
	})
}

func TestTipBranchName(t *testing.T) {
	t.Run("composes prefix, slug, date, version, and short hash", func(t *testing.T) {
		name := TipBranchName("mywork", "2026-08-29", "v1.2.3", "0123456789abcdef0123456789abcdef01234567")
		assert.Equal(t, "tip/mywork/2026-08-29-v1.2.3-0123456789", name)
	})

	t.Run("omits the version component when absent", func(t *testing.T) {
		name := TipBranchName("mywork", "2026-08-29", "", "0123456789abcdef0123456789abcdef01234567")
		assert.Equal(t, "tip/mywork/2026-08-29-0123456789", name)
	})

	t.Run("sanitizes the slug", func(t *testing.T) {
		name := TipBranchName("my work!!", "2026-08-29", "", "0123456789abcdef0123456789abcdef01234567")
		assert.Equal(t, "tip/my-work/2026-08-29-0123456789", name)
	})
}

func TestSanitizeSlug(t *testing.T) {
	assert.Equal(t, "feature/widget", SanitizeSlug("feature/widget"))
	assert.Equal(t, "spaced-out", SanitizeSlug("spaced   out"))
	assert.Equal(t, "trailing", SanitizeSlug("trailing/.."))
	assert.Equal(t, "odd-chars", SanitizeSlug("~odd~chars~"))
}
