package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

// isolate points the user config at an empty directory and runs the test
// from a clean working directory.
func isolate(t *testing.T) string {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{
		"AGENTLOOP_LLM_PROVIDER", "AGENTLOOP_LLM_API_KEY", "AGENTLOOP_AGENT_MAX_ITERATIONS",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	t.Chdir(dir)

	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 25, cfg.Agent.MaxIterations)
	assert.Equal(t, "abort", cfg.Agent.ToolErrors)
	assert.Equal(t, "plan", cfg.Agent.Mode)
	assert.Equal(t, 10, cfg.Runner.MaxConcurrentRuns)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromPath(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
llm:
  provider: anthropic
  model: claude-sonnet-4-20250514
  temperature: 0.5
agent:
  max_iterations: 8
  tool_errors: observe
  tool_timeout: 30s
  mode: delegate
log:
  level: debug
  format: json
team:
  path: team.yaml
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.LLM.Model)
	assert.InDelta(t, 0.5, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 4096, cfg.LLM.MaxTokens)
	assert.Equal(t, 8, cfg.Agent.MaxIterations)
	assert.Equal(t, "observe", cfg.Agent.ToolErrors)
	assert.Equal(t, 30*time.Second, cfg.Agent.ToolTimeout)
	assert.Equal(t, "delegate", cfg.Agent.Mode)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "team.yaml", cfg.Team.Path)
}

func TestLoadFromPathTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "agentloop.toml", `
[llm]
provider = "mock"

[agent]
mode = "react"
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, "react", cfg.Agent.Mode)
}

func TestLoadFromPathMissing(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)

	writeFile(t, os.Getenv("XDG_CONFIG_HOME"), "agentloop/config.yaml", `
llm:
  provider: anthropic
agent:
  max_iterations: 5
  mode: delegate
`)
	writeFile(t, ".", "agentloop.yaml", `
agent:
  max_iterations: 7
`)
	t.Setenv("AGENTLOOP_AGENT_MODE", "react")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 7, cfg.Agent.MaxIterations)
	assert.Equal(t, "react", cfg.Agent.Mode)
}

func TestLoadExplicitPath(t *testing.T) {
	isolate(t)

	path := writeFile(t, t.TempDir(), "custom.yaml", "llm:\n  provider: mock\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.LLM.Provider)
}

func TestLoadProviderAPIKey(t *testing.T) {
	isolate(t)

	t.Setenv("AGENTLOOP_LLM_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("OPENAI_API_KEY", "sk-openai-test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-test", cfg.LLM.APIKey)

	t.Setenv("AGENTLOOP_LLM_API_KEY", "explicit")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.LLM.APIKey)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, ".env", "AGENTLOOP_AGENT_TOOL_ERRORS=observe\n")
	t.Cleanup(func() { _ = os.Unsetenv("AGENTLOOP_AGENT_TOOL_ERRORS") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "observe", cfg.Agent.ToolErrors)
}

func TestLoadRejectsInvalid(t *testing.T) {
	isolate(t)

	path := writeFile(t, t.TempDir(), "bad.yaml", "llm:\n  provider: watson\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.provider")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Agent.ToolErrors = "retry"
	cfg.Agent.MaxIterations = -1
	cfg.Runner.MaxConcurrentRuns = -2

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent.tool_errors")
	assert.Contains(t, err.Error(), "agent.max_iterations")
	assert.Contains(t, err.Error(), "runner.max_concurrent_runs")

	cfg = Default()
	cfg.Agent.Mode = "Delegate"
	assert.NoError(t, cfg.Validate())
}

func TestGetUserConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "agentloop", "config.yaml"), GetUserConfigPath())
}
