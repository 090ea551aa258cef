package llmclient

import (
	"fmt"

	"github.com/vinayprograms/hma-agent/internal/llm"
)

// Config selects and configures a Provider backend, mirroring the
// provider/model/api-key shape the teacher's config layer uses.
type Config struct {
	Provider string // "anthropic" or "openai"; the console provider is built by cmd/agent, not by New
	Model    string
	APIKey   string
}

// New builds a Provider from cfg.
func New(cfg Config) (llm.Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic provider requires an API key")
		}
		return NewAnthropic(cfg.APIKey, cfg.Model), nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return NewOpenAI(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
