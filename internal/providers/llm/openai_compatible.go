package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sandevgo/querybot/internal/core"
)

type OpenAICompatible struct {
	baseProvider
	authHeader   string
	authPrefix   string
	extraHeaders map[string]string
}

type OpenAICompatibleConfig struct {
	BaseURL      string
	APIKey       string
	Model        string
	AuthHeader   string // e.g., "Authorization"
	AuthPrefix   string // e.g., "Bearer "
	ExtraHeaders map[string]string
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig) *OpenAICompatible {
	return &OpenAICompatible{
		baseProvider: newBaseProvider(cfg.BaseURL, cfg.APIKey, cfg.Model),
		authHeader:   cfg.AuthHeader,
		authPrefix:   cfg.AuthPrefix,
		extraHeaders: cfg.ExtraHeaders,
	}
}

func (o *OpenAICompatible) Chat(ctx context.Context, history []core.Message, tools []core.Tool) (core.Message, error) {
	payload := map[string]any{
		"model":       o.model,
		"messages":    history,
		"temperature": 0,
	}
	if len(tools) > 0 {
		payload["tools"] = tools
	}

	var result struct {
		Choices []struct {
			Message core.Message `json:"message"`
		} `json:"choices"`
	}
	if err := o.doJSON(ctx, http.MethodPost, "/v1/chat/completions", payload, o.headers(), &result); err != nil {
		return core.Message{}, err
	}
	if len(result.Choices) == 0 {
		return core.Message{}, fmt.Errorf("empty choices")
	}

	msg := result.Choices[0].Message
	if msg.Role == "" {
		msg.Role = core.RoleAssistant
	}
	return msg, nil
}

// Models lists models from the /v1/models endpoint.
func (o *OpenAICompatible) Models(ctx context.Context) ([]core.Model, error) {
	var result struct {
		Data []struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			ContextLength int    `json:"context_length"`
		} `json:"data"`
	}
	if err := o.doJSON(ctx, http.MethodGet, "/v1/models", nil, o.headers(), &result); err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}

	models := make([]core.Model, 0, len(result.Data))
	for _, m := range result.Data {
		name := m.Name
		if name == "" {
			name = m.ID
		}
		models = append(models, core.Model{
			ID:            m.ID,
			Name:          name,
			ContextLength: m.ContextLength,
		})
	}
	return models, nil
}

func (o *OpenAICompatible) headers() map[string]string {
	headers := make(map[string]string, len(o.extraHeaders)+1)
	if o.authHeader != "" && o.apiKey != "" {
		headers[o.authHeader] = o.authPrefix + o.apiKey
	}
	for k, v := range o.extraHeaders {
		headers[k] = v
	}
	return headers
}
