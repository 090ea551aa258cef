// Package config provides configuration loading for the orchestrator:
// project root, LLM provider settings, the RUN command allow-list, and
// watchdog durations, loaded from agent.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the top-level agent.toml shape.
type Config struct {
	Project     ProjectConfig     `toml:"project"`
	LLM         LLMConfig         `toml:"llm"`
	Commands    CommandsConfig    `toml:"commands"`
	Supervision SupervisionConfig `toml:"supervision"`
}

// ProjectConfig names the directory the root Master agent owns.
type ProjectConfig struct {
	Root string `toml:"root"`
}

// LLMConfig selects and configures the LLM backend.
type LLMConfig struct {
	Provider    string  `toml:"provider"` // "anthropic", "openai", or "console"
	Model       string  `toml:"model"`
	APIKeyEnv   string  `toml:"api_key_env"`
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
	Console     bool    `toml:"console"` // true routes generation to stdin/stdout for debugging
}

// CommandsConfig is the RUN directive's ALLOWED_COMMANDS allow-list.
type CommandsConfig struct {
	Allowed []string `toml:"allowed"`
}

// SupervisionConfig holds the [supervision] watchdog values read from
// agent.toml. They are parsed but not applied: RUN always uses the
// interpreter package's fixed timeouts (120s ephemeral, 300s persistent).
type SupervisionConfig struct {
	EphemeralTimeoutSeconds  int `toml:"ephemeral_timeout_seconds"`
	PersistentTimeoutSeconds int `toml:"persistent_timeout_seconds"`
}

// New returns a config with sane defaults: no provider configured (the
// caller must set one or pass --console), a conservative allow-list, and
// interpreter-default watchdogs.
func New() *Config {
	return &Config{
		LLM: LLMConfig{
			Temperature: 0.2,
			MaxTokens:   4096,
		},
		Commands: CommandsConfig{
			Allowed: []string{
				"python -m pytest", "pytest", "npm test", "npm install",
				"ls", "dir", "cat", "git status", "git log", "git diff",
				"flake8", "mypy", "black --check", "tsc", "mocha", "go test",
			},
		},
	}
}

// LoadFile loads agent.toml at path on top of New's defaults.
func LoadFile(path string) (*Config, error) {
	cfg := New()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// LoadDefault loads agent.toml from the current directory.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadFile(filepath.Join(cwd, "agent.toml"))
}

// GetAPIKey returns the API key from the configured environment variable,
// falling back to the provider's conventional default.
func (c *Config) GetAPIKey() string {
	envVar := c.LLM.APIKeyEnv
	if envVar == "" {
		envVar = DefaultAPIKeyEnv(c.LLM.Provider)
	}
	if envVar == "" {
		return ""
	}
	return os.Getenv(envVar)
}

// DefaultAPIKeyEnv returns the conventional environment variable name for
// a provider.
func DefaultAPIKeyEnv(provider string) string {
	switch provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
