// Package config handles configuration loading for agentloop.
// It supports XDG config paths, project-level overrides, .env files and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for agentloop.
type Config struct {
	LLM    LLMConfig    `mapstructure:"llm"`
	Agent  AgentConfig  `mapstructure:"agent"`
	Runner RunnerConfig `mapstructure:"runner"`
	Log    LogConfig    `mapstructure:"log"`
	Team   TeamConfig   `mapstructure:"team"`
}

// LLMConfig selects and configures the model backend.
type LLMConfig struct {
	// Provider is one of openai, anthropic, bedrock or mock.
	Provider    string  `mapstructure:"provider"`
	// Model overrides the provider's default model when set.
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	AWSRegion   string  `mapstructure:"aws_region"`
	AWSProfile  string  `mapstructure:"aws_profile"`
}

// AgentConfig holds reasoning loop and orchestration settings.
type AgentConfig struct {
	// MaxIterations caps model calls per reasoning run. Zero disables it.
	MaxIterations int `mapstructure:"max_iterations"`
	// ToolErrors is abort or observe.
	ToolErrors string `mapstructure:"tool_errors"`
	// ToolTimeout bounds each tool call. Zero disables it.
	ToolTimeout time.Duration `mapstructure:"tool_timeout"`
	// Mode is plan, delegate or react.
	Mode string `mapstructure:"mode"`
}

// RunnerConfig holds asynchronous runner settings.
type RunnerConfig struct {
	MaxConcurrentRuns int `mapstructure:"max_concurrent_runs"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
}

// TeamConfig points at a YAML team definition.
type TeamConfig struct {
	Path string `mapstructure:"path"`
}

var (
	providers  = []string{"openai", "anthropic", "bedrock", "mock"}
	toolErrors = []string{"abort", "observe"}
	modes      = []string{"plan", "delegate", "react"}
	levels     = []string{"debug", "info", "warn", "warning", "error"}
	formats    = []string{"json", "text"}
)

// projectConfigNames are searched in the working directory.
var projectConfigNames = []string{"agentloop.yaml", "agentloop.yml", "agentloop.toml"}

// Load loads configuration from defaults, the XDG user config, a project
// config and the environment. path names the project config explicitly; if
// empty, agentloop.{yaml,yml,toml} in the working directory is used when
// present.
//
// Precedence (highest to lowest):
//  1. Environment variables (AGENTLOOP_*, OPENAI_API_KEY, ANTHROPIC_API_KEY)
//  2. Project config
//  3. User config (~/.config/agentloop/config.yaml)
//  4. Built-in defaults
//
// A .env file in the working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if path == "" {
		path = findProjectConfig()
	}

	if path != "" {
		project := viper.New()
		project.SetConfigFile(path)

		if err := project.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}

		if err := v.MergeConfigMap(project.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	bindEnv(v)

	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific file over the defaults,
// ignoring the user config and the environment.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.LLM.APIKey = os.ExpandEnv(cfg.LLM.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("AGENTLOOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Provider specific keys apply only when no explicit key is configured.
	if os.Getenv("AGENTLOOP_LLM_API_KEY") == "" && v.GetString("llm.api_key") == "" {
		switch v.GetString("llm.provider") {
		case "openai":
			_ = v.BindEnv("llm.api_key", "OPENAI_API_KEY")
		case "anthropic":
			_ = v.BindEnv("llm.api_key", "ANTHROPIC_API_KEY")
		}
	}
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.aws_region", d.LLM.AWSRegion)
	v.SetDefault("llm.aws_profile", d.LLM.AWSProfile)

	v.SetDefault("agent.max_iterations", d.Agent.MaxIterations)
	v.SetDefault("agent.tool_errors", d.Agent.ToolErrors)
	v.SetDefault("agent.tool_timeout", d.Agent.ToolTimeout.String())
	v.SetDefault("agent.mode", d.Agent.Mode)

	v.SetDefault("runner.max_concurrent_runs", d.Runner.MaxConcurrentRuns)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.add_source", d.Log.AddSource)

	v.SetDefault("team.path", d.Team.Path)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "openai",
			Temperature: 0.2,
			MaxTokens:   4096,
		},
		Agent: AgentConfig{
			MaxIterations: 25,
			ToolErrors:    "abort",
			Mode:          "plan",
		},
		Runner: RunnerConfig{
			MaxConcurrentRuns: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate rejects unknown enum values and negative limits.
func (c *Config) Validate() error {
	var errs []error

	check := func(field, value string, allowed []string) {
		for _, a := range allowed {
			if strings.EqualFold(value, a) {
				return
			}
		}
		errs = append(errs, fmt.Errorf("%s: unsupported value %q (want one of %s)", field, value, strings.Join(allowed, ", ")))
	}

	check("llm.provider", c.LLM.Provider, providers)
	check("agent.tool_errors", c.Agent.ToolErrors, toolErrors)
	check("agent.mode", c.Agent.Mode, modes)
	check("log.level", c.Log.Level, levels)
	check("log.format", c.Log.Format, formats)

	if c.LLM.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("llm.max_tokens: must not be negative"))
	}
	if c.Agent.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("agent.max_iterations: must not be negative"))
	}
	if c.Agent.ToolTimeout < 0 {
		errs = append(errs, fmt.Errorf("agent.tool_timeout: must not be negative"))
	}
	if c.Runner.MaxConcurrentRuns < 0 {
		errs = append(errs, fmt.Errorf("runner.max_concurrent_runs: must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}

	return nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// getUserConfigDir returns the XDG config directory for agentloop.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "agentloop")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "agentloop")
	}
	return filepath.Join(home, ".config", "agentloop")
}

// findProjectConfig returns the first project config in the working directory.
func findProjectConfig() string {
	for _, name := range projectConfigNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}

	return ""
}
