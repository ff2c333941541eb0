package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/pkg/log"
)

const (
	DefaultMaxHistory = 5

	contextPrefix = "Previous conversation context: "
)

// Manager keeps the dialogue of one session. The chat log is what the model
// sees and gets compacted every maxHistory interactions; the displayed
// history is what the user sees and only grows.
//
// Manager is not safe for concurrent use. Callers serialize access per session.
type Manager struct {
	maxHistory int
	summarizer Summarizer
	counter    core.TokenCounter
	now        func() time.Time

	chatLog []core.Message
	history []Turn
	count   int
	summary string
}

// NewManager creates an empty manager. A non-positive maxHistory selects
// DefaultMaxHistory; counter may be nil.
func NewManager(summarizer Summarizer, maxHistory int, counter core.TokenCounter) *Manager {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Manager{
		maxHistory: maxHistory,
		summarizer: summarizer,
		counter:    counter,
		now:        time.Now,
	}
}

// AddInteraction records one exchange and compacts the chat log when the
// interaction count reaches a multiple of maxHistory.
func (m *Manager) AddInteraction(ctx context.Context, user string, bot core.Reply) {
	m.chatLog = append(m.chatLog,
		core.Message{Role: core.RoleUser, Content: user},
		core.Message{Role: core.RoleAssistant, Content: bot.String()},
	)
	m.history = append(m.history, Turn{
		User:      user,
		Bot:       bot,
		CreatedAt: m.now(),
	})
	m.count++

	if m.count%m.maxHistory == 0 {
		m.createAndStoreSummary(ctx)
	}
}

func (m *Manager) createAndStoreSummary(ctx context.Context) {
	logger := log.FromCtx(ctx).With().Int("count", m.count).Logger()

	messages := make([]core.Message, len(m.chatLog))
	copy(messages, m.chatLog)

	incremental, err := m.summarize(ctx, messages)
	if err != nil {
		logger.Error().Err(err).Msg("failed to summarize conversation")
		incremental = fmt.Sprintf("[Summary of %d earlier messages]", len(messages))
	}

	summary := incremental
	if m.summary != "" {
		summary = m.summary + " " + incremental
	}
	m.summary = summary

	m.history = append(m.history, Turn{
		User:      SummaryTitle,
		Bot:       core.TextReply(summary),
		IsSummary: true,
		SummaryAt: m.count,
		CreatedAt: m.now(),
	})

	m.chatLog = []core.Message{{Role: core.RoleUser, Content: contextPrefix + summary}}

	logger.Debug().
		Int("messages", len(messages)).
		Int("summary_tokens", m.Tokens()).
		Msg("conversation summarized")
}

func (m *Manager) summarize(ctx context.Context, messages []core.Message) (string, error) {
	if m.summarizer == nil {
		return "", fmt.Errorf("no summarizer configured")
	}
	text, err := m.summarizer.Summarize(ctx, messages, m.summary)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("summarizer returned an empty summary")
	}
	return text, nil
}

// History returns a copy of the displayed history.
func (m *Manager) History() []Turn {
	out := make([]Turn, len(m.history))
	copy(out, m.history)
	return out
}

// LastTurn returns the most recent displayed turn.
func (m *Manager) LastTurn() (Turn, bool) {
	if len(m.history) == 0 {
		return Turn{}, false
	}
	return m.history[len(m.history)-1], true
}

// ChatLog returns a copy of the condensed chat log.
func (m *Manager) ChatLog() []core.Message {
	out := make([]core.Message, len(m.chatLog))
	copy(out, m.chatLog)
	return out
}

func (m *Manager) Summary() string {
	return m.summary
}

func (m *Manager) InteractionCount() int {
	return m.count
}

func (m *Manager) MaxHistory() int {
	return m.maxHistory
}

// Tokens estimates the size of the condensed chat log.
func (m *Manager) Tokens() int {
	if m.counter == nil {
		return 0
	}
	total := 0
	for _, msg := range m.chatLog {
		total += m.counter.Count(msg.Content)
	}
	return total
}
