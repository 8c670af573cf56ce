package config

import (
	"os/exec"
)

// Companion tool executables probed at startup
const (
	BumpToolName    = "git-vbump"
	ScopeToolName   = "git-scope"
	ReorderToolName = "git-scope-sort"
)

// Capabilities records which optional companion tools are available.
// Resolved once at startup and threaded through as configuration; features
// requiring an absent tool either fall back or fail with a precondition
// error, never re-probe.
type Capabilities struct {
	BumpTool    bool
	ScopeTool   bool
	ReorderTool bool
}

// ResolveCapabilities probes PATH for the optional companion tools
func ResolveCapabilities() Capabilities {
	return Capabilities{
		BumpTool:    toolOnPath(BumpToolName),
		ScopeTool:   toolOnPath(ScopeToolName),
		ReorderTool: toolOnPath(ReorderToolName),
	}
}

func toolOnPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
