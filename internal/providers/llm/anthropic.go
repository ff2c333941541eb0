package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sandevgo/querybot/internal/core"
)

const (
	anthropicBaseURL   = "https://api.anthropic.com"
	anthropicVersion   = "2023-06-01"
	anthropicMaxTokens = 4096
)

type Anthropic struct {
	baseProvider
}

func NewAnthropic(apiKey, model string) *Anthropic {
	return &Anthropic{
		baseProvider: newBaseProvider(anthropicBaseURL, apiKey, model),
	}
}

type anthropicBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   string          `json:"content,omitempty"`
}

type anthropicMessage struct {
	Role    string           `json:"role"`
	Content []anthropicBlock `json:"content"`
}

type anthropicTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"input_schema"`
}

func (a *Anthropic) Chat(ctx context.Context, history []core.Message, tools []core.Tool) (core.Message, error) {
	system, messages := toAnthropicMessages(history)

	payload := map[string]any{
		"model":      a.model,
		"max_tokens": anthropicMaxTokens,
		"messages":   messages,
	}
	if system != "" {
		payload["system"] = system
	}
	if len(tools) > 0 {
		defs := make([]anthropicTool, 0, len(tools))
		for _, t := range tools {
			defs = append(defs, anthropicTool{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				InputSchema: t.Function.Parameters,
			})
		}
		payload["tools"] = defs
	}

	var result struct {
		Content []anthropicBlock `json:"content"`
	}
	if err := a.doJSON(ctx, http.MethodPost, "/v1/messages", payload, a.headers(), &result); err != nil {
		return core.Message{}, err
	}

	msg := core.Message{Role: core.RoleAssistant}
	for _, c := range result.Content {
		switch c.Type {
		case "text":
			msg.Content += c.Text
		case "tool_use":
			args := string(c.Input)
			if args == "" {
				args = "{}"
			}
			msg.ToolCalls = append(msg.ToolCalls, core.ToolCall{
				ID:       c.ID,
				Type:     "function",
				Function: core.FunctionCall{Name: c.Name, Arguments: args},
			})
		}
	}
	return msg, nil
}

// toAnthropicMessages moves system messages into the system prompt and
// folds consecutive tool results into one user message.
func toAnthropicMessages(history []core.Message) (string, []anthropicMessage) {
	var (
		system   []string
		messages []anthropicMessage
	)

	for _, m := range history {
		switch m.Role {
		case core.RoleSystem:
			system = append(system, m.Content)

		case core.RoleTool:
			block := anthropicBlock{Type: "tool_result", ToolUseID: m.ToolCallID, Content: m.Content}
			if n := len(messages); n > 0 && messages[n-1].Role == core.RoleUser && isToolResults(messages[n-1]) {
				messages[n-1].Content = append(messages[n-1].Content, block)
				continue
			}
			messages = append(messages, anthropicMessage{Role: core.RoleUser, Content: []anthropicBlock{block}})

		case core.RoleAssistant:
			var blocks []anthropicBlock
			if m.Content != "" {
				blocks = append(blocks, anthropicBlock{Type: "text", Text: m.Content})
			}
			for _, tc := range m.ToolCalls {
				input := json.RawMessage(tc.Function.Arguments)
				if !json.Valid(input) {
					input = json.RawMessage("{}")
				}
				blocks = append(blocks, anthropicBlock{Type: "tool_use", ID: tc.ID, Name: tc.Function.Name, Input: input})
			}
			if len(blocks) > 0 {
				messages = append(messages, anthropicMessage{Role: core.RoleAssistant, Content: blocks})
			}

		default:
			messages = append(messages, anthropicMessage{
				Role:    core.RoleUser,
				Content: []anthropicBlock{{Type: "text", Text: m.Content}},
			})
		}
	}

	return strings.Join(system, "\n\n"), messages
}

func isToolResults(m anthropicMessage) bool {
	for _, b := range m.Content {
		if b.Type != "tool_result" {
			return false
		}
	}
	return len(m.Content) > 0
}

func (a *Anthropic) Models(ctx context.Context) ([]core.Model, error) {
	var models []core.Model
	afterID := ""

	for {
		path := "/v1/models?limit=1000"
		if afterID != "" {
			path = fmt.Sprintf("%s&after_id=%s", path, url.QueryEscape(afterID))
		}

		var result struct {
			Data []struct {
				ID          string `json:"id"`
				DisplayName string `json:"display_name"`
				Type        string `json:"type"`
			} `json:"data"`
			HasMore bool   `json:"has_more"`
			LastID  string `json:"last_id"`
		}
		if err := a.doJSON(ctx, http.MethodGet, path, nil, a.headers(), &result); err != nil {
			return nil, err
		}

		for _, m := range result.Data {
			if m.Type == "model" {
				models = append(models, core.Model{ID: m.ID, Name: m.DisplayName})
			}
		}

		if !result.HasMore {
			break
		}
		afterID = result.LastID
	}

	return models, nil
}

func (a *Anthropic) headers() map[string]string {
	return map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicVersion,
	}
}
