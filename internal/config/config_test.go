package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forktip.dev/forktip/internal/config"
)

func TestLoadEnv(t *testing.T) {
	t.Run("reads resume token and argument vector", func(t *testing.T) {
		t.Setenv(config.EnvResumeStage, "STAGE_REBASED")
		t.Setenv(config.EnvResumeArgs, `["sort","upstream/main","main","--linear"]`)

		env, err := config.LoadEnv()
		require.NoError(t, err)
		assert.Equal(t, "STAGE_REBASED", env.ResumeStage)
		assert.Equal(t, []string{"sort", "upstream/main", "main", "--linear"}, env.ResumeArgs)
	})

	t.Run("rejects malformed argument vector", func(t *testing.T) {
		t.Setenv(config.EnvResumeArgs, "not json")

		_, err := config.LoadEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), config.EnvResumeArgs)
	})

	t.Run("task runner needs both repo and action", func(t *testing.T) {
		t.Setenv(config.EnvRunnerRepo, "/srv/tasks")

		env, err := config.LoadEnv()
		require.NoError(t, err)
		assert.False(t, env.HasTaskRunner())

		t.Setenv(config.EnvRunnerAction, "resume")
		env, err = config.LoadEnv()
		require.NoError(t, err)
		assert.True(t, env.HasTaskRunner())
	})

	t.Run("bump flags accept truthy values", func(t *testing.T) {
		t.Setenv(config.EnvBumpNoNormalize, "1")
		t.Setenv(config.EnvBumpLocalOnly, "false")

		env, err := config.LoadEnv()
		require.NoError(t, err)
		assert.True(t, env.BumpNoNormalize)
		assert.False(t, env.BumpLocalOnly)
	})
}

func TestEncodeResumeArgs(t *testing.T) {
	assert.Equal(t, `["tip","work","upstream/main"]`,
		config.EncodeResumeArgs([]string{"tip", "work", "upstream/main"}))
	assert.Equal(t, `[]`, config.EncodeResumeArgs([]string{}))
}

func TestContinuationState(t *testing.T) {
	t.Run("round-trips through the git dir", func(t *testing.T) {
		gitDir := t.TempDir()

		state := &config.ContinuationState{
			ResumeStage: "STAGE_MERGED",
			Args:        []string{"sort", "upstream/main", "main"},
		}
		require.NoError(t, config.PersistContinuationState(gitDir, state))

		got, err := config.GetContinuationState(gitDir)
		require.NoError(t, err)
		assert.Equal(t, state, got)

		require.NoError(t, config.ClearContinuationState(gitDir))
		_, err = config.GetContinuationState(gitDir)
		assert.Error(t, err)
	})

	t.Run("clearing an absent state is not an error", func(t *testing.T) {
		assert.NoError(t, config.ClearContinuationState(t.TempDir()))
	})

	t.Run("rejects a corrupt state file", func(t *testing.T) {
		gitDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(gitDir, ".forktip_continue"), []byte("{"), 0600))

		_, err := config.GetContinuationState(gitDir)
		assert.Error(t, err)
	})
}

func TestResolveCapabilities(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH probing test relies on unix executables")
	}

	t.Run("absent tools", func(t *testing.T) {
		t.Setenv("PATH", t.TempDir())

		caps := config.ResolveCapabilities()
		assert.False(t, caps.BumpTool)
		assert.False(t, caps.ScopeTool)
		assert.False(t, caps.ReorderTool)
	})

	t.Run("tools found on PATH", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{config.BumpToolName, config.ReorderToolName} {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))
		}
		t.Setenv("PATH", dir)

		caps := config.ResolveCapabilities()
		assert.True(t, caps.BumpTool)
		assert.False(t, caps.ScopeTool)
		assert.True(t, caps.ReorderTool)
	})
}
