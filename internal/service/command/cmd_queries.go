package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sandevgo/querybot/internal/core"
)

const defaultQueriesLimit = 10

type QueriesCommand struct {
	journal   core.JournalRepository
	formatter *ResponseFormatter
}

func NewQueriesCommand(journal core.JournalRepository) core.Command {
	return &QueriesCommand{
		journal:   journal,
		formatter: NewResponseFormatter(),
	}
}

func (c *QueriesCommand) Name() string {
	return "queries"
}

func (c *QueriesCommand) Description() string {
	return "Show recently executed queries"
}

func (c *QueriesCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	limit := defaultQueriesLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return c.formatter.Combine(
				c.formatter.Usage("/queries [count]"),
				c.formatter.Examples([]string{"/queries", "/queries 25"}),
			), nil
		}
		limit = n
	}

	entries, err := c.journal.Recent(ctx, limit)
	if err != nil {
		return "", fmt.Errorf("failed to read query journal: %w", err)
	}

	if len(entries) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Recent Queries"),
			c.formatter.Label("Status", "No queries executed yet."),
		), nil
	}

	items := make([]string, 0, len(entries))
	for _, e := range entries {
		item := fmt.Sprintf("`%s` %s.%s page %d: **%s**, %d rows, %s",
			e.Kind, orNotSet(e.Database), orNotSet(e.Collection), e.Page, e.Status, e.Rows, e.Duration)
		if e.Error != "" {
			item += " (" + e.Error + ")"
		}
		items = append(items, item)
	}

	return c.formatter.Combine(
		c.formatter.Info("Recent Queries"),
		c.formatter.List(items),
	), nil
}
