package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/internal/service/command"
	"github.com/sandevgo/querybot/internal/service/intent"
	"github.com/sandevgo/querybot/internal/service/memory"
	"github.com/sandevgo/querybot/internal/service/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDispatcher struct {
	instructions []string
	histories    [][]core.Message
	answer       core.Answer
}

func (d *stubDispatcher) Run(_ context.Context, history []core.Message, instruction string) (core.Answer, error) {
	d.instructions = append(d.instructions, instruction)
	d.histories = append(d.histories, history)
	return d.answer, nil
}

type stubSummarizer struct{}

func (stubSummarizer) Summarize(_ context.Context, messages []core.Message, _ string) (string, error) {
	return "talked about sales", nil
}

func newTestHandler(d *stubDispatcher) (*Handler, *session.Store) {
	store := session.NewStore(NewMemoryFactory(stubSummarizer{}, 5, nil))
	return NewHandler(store, intent.NewResolver(d), command.New(nil)), store
}

func TestHandler_Start(t *testing.T) {
	h, store := newTestHandler(&stubDispatcher{})

	assert.Equal(t, Welcome, h.Start(context.Background(), "s1"))
	assert.Equal(t, 1, store.Len())
}

func TestHandler_CommandsAreNotRecorded(t *testing.T) {
	h, store := newTestHandler(&stubDispatcher{})
	ctx := context.Background()
	h.Start(ctx, "s1")

	resp := h.Handle(ctx, "s1", "/help")
	assert.Contains(t, resp.Primary.Text, "/help")
	assert.False(t, resp.HasSummary())

	sess, _ := store.Get("s1")
	assert.Empty(t, sess.Memory.History())
	assert.Zero(t, sess.Memory.InteractionCount())
}

func TestHandler_ClarifyThenCombine(t *testing.T) {
	d := &stubDispatcher{answer: core.Answer{Text: "42 orders"}}
	h, store := newTestHandler(d)
	ctx := context.Background()
	h.Start(ctx, "s1")

	resp := h.Handle(ctx, "s1", "count orders")
	assert.Equal(t, intent.ClarifyBoth, resp.Primary.Text)
	assert.Empty(t, d.instructions)

	resp = h.Handle(ctx, "s1", "sales database and orders collection")
	assert.Equal(t, "42 orders", resp.Primary.Text)
	require.Len(t, d.instructions, 1)
	assert.Equal(t, "count orders from sales database and orders collection.", d.instructions[0])

	resp = h.Handle(ctx, "s1", "how many are pending")
	assert.Equal(t, "42 orders", resp.Primary.Text)
	require.Len(t, d.instructions, 2)
	assert.True(t, strings.HasPrefix(d.instructions[1], "Use the previously used database (sales) and collection (orders)"))

	sess, _ := store.Get("s1")
	assert.Len(t, sess.Memory.History(), 3)
	assert.Len(t, d.histories[1], 4)
}

func TestHandler_TableReply(t *testing.T) {
	d := &stubDispatcher{answer: core.Answer{Records: []any{
		map[string]any{"name": "alice", "age": 30},
	}}}
	h, _ := newTestHandler(d)
	ctx := context.Background()

	resp := h.Handle(ctx, "s1", "list users in app database and users collection")
	require.True(t, resp.Primary.IsTable())
	assert.Equal(t, 1, resp.Primary.Table.Len())
}

func TestHandler_SummaryOnInterval(t *testing.T) {
	d := &stubDispatcher{answer: core.Answer{Text: "ok"}}
	h, store := newTestHandler(d)
	ctx := context.Background()
	h.Start(ctx, "s1")

	for i := 0; i < 4; i++ {
		resp := h.Handle(ctx, "s1", "find one in sales database and orders collection")
		assert.False(t, resp.HasSummary())
	}

	resp := h.Handle(ctx, "s1", "find one in sales database and orders collection")
	assert.Equal(t, "ok", resp.Primary.Text)
	require.True(t, resp.HasSummary())
	assert.Equal(t, "talked about sales", resp.Summary)

	sess, _ := store.Get("s1")
	history := sess.Memory.History()
	require.Len(t, history, 6)
	assert.True(t, history[5].IsSummary)
}

func TestHandler_SessionsAreIsolated(t *testing.T) {
	d := &stubDispatcher{answer: core.Answer{Text: "ok"}}
	h, _ := newTestHandler(d)
	ctx := context.Background()

	h.Handle(ctx, "a", "count in sales database and orders collection")

	resp := h.Handle(ctx, "b", "count them again")
	assert.Equal(t, intent.ClarifyBoth, resp.Primary.Text)
	assert.Len(t, d.instructions, 1)
}

func TestHandler_StartResetsTarget(t *testing.T) {
	d := &stubDispatcher{answer: core.Answer{Text: "ok"}}
	h, _ := newTestHandler(d)
	ctx := context.Background()

	h.Handle(ctx, "s1", "count in sales database and orders collection")
	h.Start(ctx, "s1")

	resp := h.Handle(ctx, "s1", "count them again")
	assert.Equal(t, intent.ClarifyBoth, resp.Primary.Text)
}

func TestNewMemoryFactory(t *testing.T) {
	factory := NewMemoryFactory(nil, 0, nil)
	a, b := factory(), factory()

	assert.NotSame(t, a, b)
	assert.Equal(t, memory.DefaultMaxHistory, a.MaxHistory())
}
