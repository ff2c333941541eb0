package command

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/internal/service/memory"
	"github.com/sandevgo/querybot/internal/service/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSummarizer struct{}

func (staticSummarizer) Summarize(ctx context.Context, messages []core.Message, existing string) (string, error) {
	return fmt.Sprintf("talked about %d messages", len(messages)), nil
}

func newSessions() *session.Store {
	return session.NewStore(func() *memory.Manager {
		return memory.NewManager(staticSummarizer{}, 2, nil)
	})
}

type fakeJournal struct {
	entries []core.JournalEntry
	limit   int
	err     error
}

func (f *fakeJournal) Record(ctx context.Context, e core.JournalEntry) error { return nil }

func (f *fakeJournal) Recent(ctx context.Context, limit int) ([]core.JournalEntry, error) {
	f.limit = limit
	return f.entries, f.err
}

type fakeModels struct {
	provider, model string
	list            []core.Model
	setErr          error
}

func (f *fakeModels) Models(ctx context.Context) ([]core.Model, error) { return f.list, nil }
func (f *fakeModels) GetProvider() string                              { return f.provider }
func (f *fakeModels) GetModel() string                                 { return f.model }
func (f *fakeModels) SetModel(ctx context.Context, model string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.model = model
	return nil
}

type fakeTools struct{}

func (fakeTools) GetTools(ctx context.Context) ([]core.Tool, error) {
	return []core.Tool{{Type: "function", Function: core.Function{Name: "mongodb_query", Description: "Run\nqueries"}}}, nil
}

func (fakeTools) CallTool(ctx context.Context, name, args string) (core.ToolResult, error) {
	return core.ToolResult{}, nil
}

func newRouter(sessions *session.Store, journal core.JournalRepository, models ModelSwitcher) *Router {
	return New(NewCommands(sessions, journal, models, fakeTools{}))
}

func TestRouter_NotACommand(t *testing.T) {
	r := newRouter(newSessions(), nil, nil)

	_, handled := r.Execute(context.Background(), "s", "show me data")
	assert.False(t, handled)

	_, handled = r.Execute(context.Background(), "s", "/")
	assert.True(t, handled)
}

func TestRouter_Unknown(t *testing.T) {
	r := newRouter(newSessions(), nil, nil)

	out, handled := r.Execute(context.Background(), "s", "/nope")
	assert.True(t, handled)
	assert.Contains(t, out, "Unknown command")
}

func TestRouter_BotSuffixAndCase(t *testing.T) {
	r := newRouter(newSessions(), nil, nil)

	out, handled := r.Execute(context.Background(), "s", "/Target@querybot")
	assert.True(t, handled)
	assert.Contains(t, out, "Query Target")
}

func TestRouter_ListCommands(t *testing.T) {
	r := newRouter(newSessions(), &fakeJournal{}, &fakeModels{})

	var names []string
	for _, c := range r.ListCommands() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"help", "history", "memory", "model", "queries", "reset", "summary", "target", "tools"}, names)

	out, _ := r.Execute(context.Background(), "s", "/help")
	assert.Contains(t, out, "`/history`")
	assert.Contains(t, out, "`/reset`")
}

func TestRouter_OptionalCommands(t *testing.T) {
	r := newRouter(newSessions(), nil, nil)

	out, _ := r.Execute(context.Background(), "s", "/queries")
	assert.Contains(t, out, "Unknown command")
	out, _ = r.Execute(context.Background(), "s", "/model")
	assert.Contains(t, out, "Unknown command")
}

func TestHistoryAndSummary(t *testing.T) {
	sessions := newSessions()
	r := newRouter(sessions, nil, nil)
	ctx := context.Background()

	out, _ := r.Execute(ctx, "s", "/history")
	assert.Contains(t, out, "Nothing yet")
	out, _ = r.Execute(ctx, "s", "/summary")
	assert.Contains(t, out, "every 2 interactions")

	sess, _ := sessions.Get("s")
	sess.Memory.AddInteraction(ctx, "first question", core.TextReply("first answer"))
	sess.Memory.AddInteraction(ctx, "second question", core.TableReply(&core.Table{
		Columns: []string{"a", "b"},
		Rows:    [][]any{{1, 2}, {3, 4}},
	}))

	out, _ = r.Execute(ctx, "s", "/history")
	assert.Contains(t, out, "**1.** first question")
	assert.Contains(t, out, "[table: 2 rows, 2 columns]")
	assert.Contains(t, out, "Summary after 2 interactions")
	assert.Contains(t, out, "talked about 4 messages")

	out, _ = r.Execute(ctx, "s", "/summary")
	assert.Contains(t, out, "talked about 4 messages")

	out, _ = r.Execute(ctx, "s", "/memory")
	assert.Contains(t, out, "**Interactions**  ›  `2`")
	assert.Contains(t, out, "**Context messages**  ›  `1`")
	assert.Contains(t, out, "**Next summary in**  ›  `2`")
}

func TestTargetAndReset(t *testing.T) {
	sessions := newSessions()
	r := newRouter(sessions, nil, nil)
	ctx := context.Background()

	sess, _ := sessions.Get("s")
	sess.Target.Database = "sales"
	sess.Target.Collection = "orders"

	out, _ := r.Execute(ctx, "s", "/target")
	assert.Contains(t, out, "`sales`")
	assert.Contains(t, out, "`orders`")
	assert.Contains(t, out, "**Pending query**  ›  `not set`")

	out, _ = r.Execute(ctx, "s", "/reset")
	assert.Contains(t, out, "Session reset")

	fresh, created := sessions.Get("s")
	assert.False(t, created)
	assert.NotSame(t, sess, fresh)
	assert.False(t, fresh.Target.Known())
}

func TestQueriesCommand(t *testing.T) {
	journal := &fakeJournal{entries: []core.JournalEntry{
		{Kind: "find", Database: "sales", Collection: "orders", Status: core.JournalOK, Rows: 3, Duration: 12 * time.Millisecond},
		{Status: core.JournalInvalid, Error: "missing collection"},
	}}
	r := newRouter(newSessions(), journal, nil)
	ctx := context.Background()

	out, _ := r.Execute(ctx, "s", "/queries 5")
	assert.Equal(t, 5, journal.limit)
	assert.Contains(t, out, "sales.orders page 0: **ok**, 3 rows, 12ms")
	assert.Contains(t, out, "(missing collection)")

	out, _ = r.Execute(ctx, "s", "/queries")
	assert.Equal(t, defaultQueriesLimit, journal.limit)

	out, _ = r.Execute(ctx, "s", "/queries abc")
	assert.Contains(t, out, "Usage")

	journal.err = errors.New("locked")
	out, _ = r.Execute(ctx, "s", "/queries")
	assert.Contains(t, out, "Command Error")
	assert.Contains(t, out, "locked")
}

func TestModelCommand(t *testing.T) {
	models := &fakeModels{
		provider: "ollama",
		model:    "hermes3:8b",
		list:     []core.Model{{ID: "hermes3:8b", Name: "hermes3:8b"}, {ID: "claude", Name: "Claude"}},
	}
	r := newRouter(newSessions(), nil, models)
	ctx := context.Background()

	out, _ := r.Execute(ctx, "s", "/model")
	assert.Contains(t, out, "`hermes3:8b`")

	out, _ = r.Execute(ctx, "s", "/model list")
	assert.Contains(t, out, "Models (ollama)")
	assert.Contains(t, out, "`claude` Claude")

	out, _ = r.Execute(ctx, "s", "/model llama3.1:8b")
	assert.Contains(t, out, "Model changed to: `ollama/llama3.1:8b`")

	models.setErr = errors.New("unknown llm provider")
	out, _ = r.Execute(ctx, "s", "/model x")
	assert.Contains(t, out, "unknown llm provider")
}

func TestToolsCommand(t *testing.T) {
	r := newRouter(newSessions(), nil, nil)

	out, handled := r.Execute(context.Background(), "s", "/tools")
	require.True(t, handled)
	assert.Contains(t, out, "**mongodb_query** Run queries")
}
