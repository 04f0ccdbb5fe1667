package llmsvc

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/flmvela/gemeos/core"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderClaude = "claude"
)

// Client generates text out of a prompt.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var defaultModels = map[string]string{
	ProviderOpenAI: "gpt-4o-mini",
	ProviderGemini: "gemini-1.5-flash",
	ProviderClaude: "claude-3-5-haiku-latest",
}

// NewClient returns the Client of the configured provider, or nil if no provider is configured.
func NewClient(ctx context.Context, conf core.LLMConfig) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(conf.Provider))
	if provider == "" {
		return nil, nil
	}

	model := conf.Model
	if model == "" {
		model = defaultModels[provider]
	}

	switch provider {
	case ProviderOpenAI:
		return NewOpenAIClient(conf.APIKey, model, conf.BaseURL), nil
	case ProviderGemini:
		c, err := NewGeminiClient(ctx, conf.APIKey, model)
		if err != nil {
			return nil, errors.Wrap(err, "creating gemini client")
		}
		return c, nil
	case ProviderClaude:
		return NewClaudeClient(conf.APIKey, model, conf.BaseURL), nil
	}
	return nil, errors.Errorf("unsupported llm provider: %s", provider)
}
