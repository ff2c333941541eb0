package agent

import (
	"context"
	"fmt"

	"github.com/sandevgo/querybot/internal/core"
)

type Executor struct {
	tools core.ToolServer
}

func NewExecutor(tools core.ToolServer) *Executor {
	return &Executor{
		tools: tools,
	}
}

// Execute runs every tool call in order. It returns the tool messages for the
// model and the records of the last call that produced any.
func (e *Executor) Execute(ctx context.Context, toolCalls []core.ToolCall) ([]core.Message, []any) {
	var (
		results []core.Message
		records []any
	)
	for _, tc := range toolCalls {
		res, err := e.tools.CallTool(ctx, tc.Function.Name, tc.Function.Arguments)
		if err != nil {
			res = core.ToolResult{Content: fmt.Sprintf("Error: %v", err)}
		}
		if len(res.Records) > 0 {
			records = res.Records
		}

		results = append(results, core.Message{
			Role:       core.RoleTool,
			Content:    res.Content,
			ToolCallID: tc.ID,
		})
	}
	return results, records
}
