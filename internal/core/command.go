package core

import "context"

// CmdRouter dispatches slash commands. Execute reports false when input is
// not a command and should go to the query path instead.
type CmdRouter interface {
	Execute(ctx context.Context, sessionID, input string) (string, bool)
	ListCommands() []Command
}

// Command is a chat command scoped to the caller's session. Replies are
// Markdown.
type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, sessionID string, args []string) (string, error)
}
