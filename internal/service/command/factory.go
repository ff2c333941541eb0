package command

import (
	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/internal/service/session"
)

// Sessions gives commands access to per-session state.
type Sessions interface {
	Get(id string) (*session.Session, bool)
	Start(id string) *session.Session
}

func NewCommands(
	sessions Sessions,
	journal core.JournalRepository,
	models ModelSwitcher,
	tools core.ToolServer,
) []core.Command {
	commands := []core.Command{
		NewHistoryCommand(sessions),
		NewSummaryCommand(sessions),
		NewTargetCommand(sessions),
		NewMemoryCommand(sessions),
		NewResetCommand(sessions),
		NewToolsCommand(tools),
	}
	if journal != nil {
		commands = append(commands, NewQueriesCommand(journal))
	}
	if models != nil {
		commands = append(commands, NewModelCommand(models))
	}
	return commands
}
