// Package config resolves forktip's environment-driven configuration once at
// startup: the resume token left by a paused workflow, the original argument
// vector for re-invocation, task-runner integration, and the options for the
// version-bump helper.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names consumed by forktip
const (
	// EnvResumeStage names the workflow stage a re-invocation should resume at
	EnvResumeStage = "FORKTIP_RESUME"

	// EnvResumeArgs carries the original argument vector, JSON-encoded
	EnvResumeArgs = "FORKTIP_RESUME_ARGS"

	// EnvRunnerRepo and EnvRunnerAction identify an optional external
	// task-runner integration; when both are set, background re-invocations
	// go through that runner instead of calling the binary directly.
	EnvRunnerRepo   = "FORKTIP_RUNNER_REPO"
	EnvRunnerAction = "FORKTIP_RUNNER_ACTION"

	// EnvBumpNoNormalize disables tag-name normalization in the bump helper
	EnvBumpNoNormalize = "FORKTIP_BUMP_NO_NORMALIZE"

	// EnvBumpLocalOnly restricts the bump helper to local tags, no push
	EnvBumpLocalOnly = "FORKTIP_BUMP_LOCAL_ONLY"
)

// Env holds the environment configuration resolved once at startup
type Env struct {
	ResumeStage     string
	ResumeArgs      []string
	RunnerRepo      string
	RunnerAction    string
	BumpNoNormalize bool
	BumpLocalOnly   bool
}

// LoadEnv reads the process environment into an Env. An optional .env file
// in the current directory is loaded first; its absence is not an error.
func LoadEnv() (*Env, error) {
	_ = godotenv.Load()

	env := &Env{
		ResumeStage:     os.Getenv(EnvResumeStage),
		RunnerRepo:      os.Getenv(EnvRunnerRepo),
		RunnerAction:    os.Getenv(EnvRunnerAction),
		BumpNoNormalize: boolEnv(EnvBumpNoNormalize),
		BumpLocalOnly:   boolEnv(EnvBumpLocalOnly),
	}

	if raw := os.Getenv(EnvResumeArgs); raw != "" {
		if err := json.Unmarshal([]byte(raw), &env.ResumeArgs); err != nil {
			return nil, fmt.Errorf("malformed %s: %w", EnvResumeArgs, err)
		}
	}

	return env, nil
}

// HasTaskRunner reports whether the external task-runner integration is
// configured.
func (e *Env) HasTaskRunner() bool {
	return e.RunnerRepo != "" && e.RunnerAction != ""
}

// EncodeResumeArgs serializes an argument vector for EnvResumeArgs
func EncodeResumeArgs(args []string) string {
	data, _ := json.Marshal(args)
	return string(data)
}

func boolEnv(name string) bool {
	switch os.Getenv(name) {
	case "", "0", "false", "no":
		return false
	}
	return true
}
