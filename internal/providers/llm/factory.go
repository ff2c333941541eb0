package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/pkg/log"
)

// Provider is a chat model that can also list its models.
type Provider interface {
	core.AIProvider
	core.ModelLister
}

// NewProvider creates the appropriate Provider based on configuration.
func NewProvider(ctx context.Context, cfg core.ProviderConfig) (Provider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.GetProvider()).
		Str("model", cfg.GetModel()).
		Msg("starting llm provider")

	switch cfg.GetProvider() {
	case "openai":
		return NewOpenAI(cfg.GetOpenAIAPIKey(), cfg.GetModel()), nil
	case "anthropic":
		return NewAnthropic(cfg.GetAnthropicAPIKey(), cfg.GetModel()), nil
	case "openrouter":
		return NewOpenRouter(cfg.GetOpenRouterAPIKey(), cfg.GetModel()), nil
	case "ollama":
		return NewOllama(cfg.GetOllamaBaseURL(), cfg.GetOllamaAPIKey(), cfg.GetModel()), nil
	case "custom":
		return NewCustomOpenAI(cfg.GetCustomOpenAIBaseURL(), cfg.GetCustomOpenAIAPIKey(), cfg.GetModel()), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.GetProvider())
	}
}
