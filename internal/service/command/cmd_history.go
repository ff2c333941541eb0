package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/internal/service/session"
)

const historyPreviewLen = 200

type HistoryCommand struct{ sessionCommand }

func NewHistoryCommand(sessions Sessions) core.Command {
	return &HistoryCommand{newSessionCommand(sessions)}
}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Show the conversation so far" }

func (c *HistoryCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	return c.with(sessionID, func(s *session.Session) string {
		turns := s.Memory.History()
		if len(turns) == 0 {
			return c.formatter.Combine(c.formatter.Info("History"), "Nothing yet.\n")
		}

		var sb strings.Builder
		n := 0
		for _, t := range turns {
			if t.IsSummary {
				sb.WriteString(c.formatter.Section("📝", fmt.Sprintf("Summary after %d interactions", t.SummaryAt), t.Bot.Text))
				continue
			}
			n++
			bot := t.Bot.Text
			if t.Bot.IsTable() {
				bot = fmt.Sprintf("[table: %d rows, %d columns]", t.Bot.Table.Len(), len(t.Bot.Table.Columns))
			}
			sb.WriteString(fmt.Sprintf("**%d.** %s\n› %s\n\n", n, preview(t.User), preview(bot)))
		}

		return c.formatter.Combine(c.formatter.Info("History"), sb.String())
	}), nil
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > historyPreviewLen {
		return string(r[:historyPreviewLen-3]) + "..."
	}
	return s
}
