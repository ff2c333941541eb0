package core

import "encoding/json"

const (
	BotName       = "QueryBot"
	BotUserAgent  = "QueryBot-Agent/0.1"
	RepositoryURL = "https://github.com/sandevgo/querybot"
	Version       = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

type Function struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"` // JSON Schema
}

type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Reasoning  string     `json:"reasoning,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolResult is what a tool hands back to the reasoning loop. Content goes to
// the model, Records are kept for presentation.
type ToolResult struct {
	Content string
	Records []any
}

// Answer is the outcome of one reasoning loop run.
type Answer struct {
	Text    string
	Records []any
}

func (a Answer) HasRecords() bool {
	return len(a.Records) > 0
}

type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContextLength int    `json:"context_length"`
}
