package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/internal/service/session"
)

const notSet = "not set"

// sessionCommand is the shared part of commands that read session state.
type sessionCommand struct {
	sessions  Sessions
	formatter *ResponseFormatter
}

func newSessionCommand(sessions Sessions) sessionCommand {
	return sessionCommand{sessions: sessions, formatter: NewResponseFormatter()}
}

// with runs fn while holding the session lock.
func (c sessionCommand) with(sessionID string, fn func(*session.Session) string) string {
	sess, _ := c.sessions.Get(sessionID)
	sess.Lock()
	defer sess.Unlock()
	return fn(sess)
}

type SummaryCommand struct{ sessionCommand }

func NewSummaryCommand(sessions Sessions) core.Command {
	return &SummaryCommand{newSessionCommand(sessions)}
}

func (c *SummaryCommand) Name() string        { return "summary" }
func (c *SummaryCommand) Description() string { return "Show the running conversation summary" }

func (c *SummaryCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	return c.with(sessionID, func(s *session.Session) string {
		summary := s.Memory.Summary()
		if summary == "" {
			return c.formatter.Combine(
				c.formatter.Info("Summary"),
				fmt.Sprintf("No summary yet. One is written every %d interactions.\n", s.Memory.MaxHistory()),
			)
		}
		return c.formatter.Combine(c.formatter.Info("Summary"), summary)
	}), nil
}

type TargetCommand struct{ sessionCommand }

func NewTargetCommand(sessions Sessions) core.Command {
	return &TargetCommand{newSessionCommand(sessions)}
}

func (c *TargetCommand) Name() string { return "target" }
func (c *TargetCommand) Description() string {
	return "Show the cached database, collection and pending query"
}

func (c *TargetCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	return c.with(sessionID, func(s *session.Session) string {
		return c.formatter.Combine(
			c.formatter.Info("Query Target"),
			c.formatter.Label("Database", orNotSet(s.Target.Database)),
			c.formatter.Label("Collection", orNotSet(s.Target.Collection)),
			c.formatter.Label("Pending query", orNotSet(s.Target.PendingQuery)),
		)
	}), nil
}

type MemoryCommand struct{ sessionCommand }

func NewMemoryCommand(sessions Sessions) core.Command {
	return &MemoryCommand{newSessionCommand(sessions)}
}

func (c *MemoryCommand) Name() string        { return "memory" }
func (c *MemoryCommand) Description() string { return "Show conversation memory statistics" }

func (c *MemoryCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	return c.with(sessionID, func(s *session.Session) string {
		m := s.Memory
		next := m.MaxHistory() - m.InteractionCount()%m.MaxHistory()
		return c.formatter.Combine(
			c.formatter.Info("Memory"),
			c.formatter.Label("Interactions", strconv.Itoa(m.InteractionCount())),
			c.formatter.Label("Context messages", strconv.Itoa(len(m.ChatLog()))),
			c.formatter.Label("Context tokens", strconv.Itoa(m.Tokens())),
			c.formatter.Label("Next summary in", strconv.Itoa(next)),
		)
	}), nil
}

type ResetCommand struct{ sessionCommand }

func NewResetCommand(sessions Sessions) core.Command {
	return &ResetCommand{newSessionCommand(sessions)}
}

func (c *ResetCommand) Name() string        { return "reset" }
func (c *ResetCommand) Description() string { return "Forget the conversation and the cached target" }

func (c *ResetCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	c.sessions.Start(sessionID)
	return c.formatter.Success("Session reset"), nil
}

func orNotSet(v string) string {
	if v == "" {
		return notSet
	}
	return v
}
