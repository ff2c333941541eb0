package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sandevgo/querybot/internal/core"
)

const (
	openAIBaseURL     = "https://api.openai.com"
	openRouterBaseURL = "https://openrouter.ai/api"

	// Ollama's tag listing carries no context size; this matches its default
	// for the models the bot is usually run with.
	ollamaContextLength = 32768
)

func bearer(baseURL, apiKey, model string) OpenAICompatibleConfig {
	return OpenAICompatibleConfig{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
	}
}

type OpenAI struct {
	*OpenAICompatible
}

func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{NewOpenAICompatible(bearer(openAIBaseURL, apiKey, model))}
}

type OpenRouter struct {
	*OpenAICompatible
}

func NewOpenRouter(apiKey, model string) *OpenRouter {
	cfg := bearer(openRouterBaseURL, apiKey, model)
	cfg.ExtraHeaders = map[string]string{
		"HTTP-Referer": core.RepositoryURL,
		"X-Title":      core.BotName,
	}
	return &OpenRouter{NewOpenAICompatible(cfg)}
}

// CustomOpenAI targets self-hosted servers with an OpenAI style API.
type CustomOpenAI struct {
	*OpenAICompatible
}

func NewCustomOpenAI(baseURL, apiKey, model string) *CustomOpenAI {
	return &CustomOpenAI{NewOpenAICompatible(bearer(trimVersion(baseURL), apiKey, model))}
}

type Ollama struct {
	*OpenAICompatible
}

func NewOllama(baseURL, apiKey, model string) *Ollama {
	return &Ollama{NewOpenAICompatible(bearer(trimVersion(baseURL), apiKey, model))}
}

// Models lists locally pulled models from /api/tags.
func (o *Ollama) Models(ctx context.Context) ([]core.Model, error) {
	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := o.doJSON(ctx, http.MethodGet, "/api/tags", nil, o.headers(), &tags); err != nil {
		return nil, fmt.Errorf("ollama not available: %w", err)
	}

	models := make([]core.Model, 0, len(tags.Models))
	for _, m := range tags.Models {
		models = append(models, core.Model{ID: m.Name, Name: m.Name, ContextLength: ollamaContextLength})
	}
	return models, nil
}

// trimVersion drops a trailing "/v1" so both forms of the base URL work.
func trimVersion(baseURL string) string {
	return strings.TrimSuffix(strings.TrimRight(baseURL, "/"), "/v1")
}
