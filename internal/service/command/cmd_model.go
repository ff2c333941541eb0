package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/querybot/internal/core"
)

const maxListedModels = 20

type ModelSwitcher interface {
	core.ModelLister
	GetProvider() string
	GetModel() string
	SetModel(ctx context.Context, model string) error
}

type ModelCommand struct {
	models    ModelSwitcher
	formatter *ResponseFormatter
}

func NewModelCommand(models ModelSwitcher) *ModelCommand {
	return &ModelCommand{
		models:    models,
		formatter: NewResponseFormatter(),
	}
}

func (c *ModelCommand) Name() string {
	return "model"
}

func (c *ModelCommand) Description() string {
	return "Show, list or change the current model"
}

func (c *ModelCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Current Model"),
			c.formatter.Label("Provider", c.models.GetProvider()),
			c.formatter.Label("Model", c.models.GetModel()),
			c.formatter.Usage("/model [provider/]model | /model list"),
			c.formatter.Examples([]string{
				"/model list",
				"/model llama3.1:8b",
				"/model openrouter/openai/gpt-4o-mini",
			}),
		), nil
	}

	if args[0] == "list" {
		return c.list(ctx)
	}

	if err := c.models.SetModel(ctx, args[0]); err != nil {
		return "", fmt.Errorf("failed to set model: %w", err)
	}

	return c.formatter.Success(fmt.Sprintf("Model changed to: `%s/%s`", c.models.GetProvider(), c.models.GetModel())), nil
}

func (c *ModelCommand) list(ctx context.Context) (string, error) {
	models, err := c.models.Models(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list models: %w", err)
	}

	items := make([]string, 0, maxListedModels)
	for i, m := range models {
		if i == maxListedModels {
			items = append(items, fmt.Sprintf("... and %d more", len(models)-maxListedModels))
			break
		}
		if m.Name != "" && !strings.EqualFold(m.Name, m.ID) {
			items = append(items, fmt.Sprintf("`%s` %s", m.ID, m.Name))
			continue
		}
		items = append(items, fmt.Sprintf("`%s`", m.ID))
	}

	return c.formatter.Combine(
		c.formatter.Info(fmt.Sprintf("Models (%s)", c.models.GetProvider())),
		c.formatter.List(items),
	), nil
}
