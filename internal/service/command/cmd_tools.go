package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/querybot/internal/core"
)

type ToolsCommand struct {
	tools     core.ToolServer
	formatter *ResponseFormatter
}

func NewToolsCommand(tools core.ToolServer) core.Command {
	return &ToolsCommand{
		tools:     tools,
		formatter: NewResponseFormatter(),
	}
}

func (c *ToolsCommand) Name() string {
	return "tools"
}

func (c *ToolsCommand) Description() string {
	return "Show tools available to the assistant"
}

func (c *ToolsCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	tools, err := c.tools.GetTools(ctx)
	if err != nil {
		return "", err
	}

	if len(tools) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Tools"),
			c.formatter.Label("Status", "No tools are registered."),
		), nil
	}

	items := make([]string, len(tools))
	for i, tool := range tools {
		description := strings.Join(strings.Fields(tool.Function.Description), " ")
		if len(description) > 120 {
			description = description[:117] + "..."
		}
		items[i] = fmt.Sprintf("**%s** %s", tool.Function.Name, description)
	}

	return c.formatter.Combine(
		c.formatter.Info("Tools"),
		c.formatter.Label("Registered", fmt.Sprintf("%d", len(tools))),
		c.formatter.List(items),
	), nil
}
