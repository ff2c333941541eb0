package core

import "context"

type AIProvider interface {
	Chat(ctx context.Context, history []Message, tools []Tool) (Message, error)
}

type ToolServer interface {
	GetTools(ctx context.Context) ([]Tool, error)
	CallTool(ctx context.Context, name string, args string) (ToolResult, error)
}

type TokenCounter interface {
	Count(text string) int
}

type ModelLister interface {
	Models(ctx context.Context) ([]Model, error)
}
