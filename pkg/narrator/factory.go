package narrator

import (
	"context"
	"fmt"
)

// Providers lists the supported provider names
var Providers = []string{"gemini", "openai", "ollama"}

// ProviderConfig selects and configures one LLM backend
type ProviderConfig struct {
	Name    string
	APIKey  string
	Model   string
	BaseURL string // ollama only
}

// Validate checks the settings required by the selected provider
func (c ProviderConfig) Validate() error {
	switch c.Name {
	case "gemini", "openai":
		if c.APIKey == "" {
			return fmt.Errorf("no API key set for %s, run 'gosec-posture config set-key %s <key>'", c.Name, c.Name)
		}
	case "ollama":
	default:
		return fmt.Errorf("unknown provider: %s", c.Name)
	}
	return nil
}

func NewProvider(ctx context.Context, cfg ProviderConfig) (LLMProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Name {
	case "gemini":
		return NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.Model), nil
	default:
		return NewOllamaProvider(cfg.BaseURL, cfg.Model)
	}
}
