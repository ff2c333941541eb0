package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/querybot/internal/core"
)

type Router struct {
	commands  map[string]core.Command
	formatter *ResponseFormatter
}

func New(commands []core.Command) *Router {
	c := &Router{
		commands:  make(map[string]core.Command),
		formatter: NewResponseFormatter(),
	}

	for _, cmd := range commands {
		c.commands[cmd.Name()] = cmd
	}
	help := &HelpCommand{router: c, formatter: c.formatter}
	c.commands[help.Name()] = help
	return c
}

func (c *Router) Execute(ctx context.Context, sessionID, input string) (string, bool) {
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return "", false
	}
	// Telegram appends the bot name in groups: /history@querybot
	name, _, _ := strings.Cut(strings.TrimPrefix(parts[0], "/"), "@")
	name = strings.ToLower(name)
	args := parts[1:]

	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Sprintf("Unknown command: /%s. Try /help", name), true
	}

	result, err := cmd.Execute(ctx, sessionID, args)
	if err != nil {
		return c.formatter.Error(err), true
	}
	return result, true
}

func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}
