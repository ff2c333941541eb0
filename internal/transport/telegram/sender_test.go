package telegram

import (
	"context"
	"strings"
	"testing"

	"github.com/sandevgo/querybot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitHTML(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   []string
	}{
		{"short", "hello", 10, []string{"hello"}},
		{"empty", "", 10, []string{""}},
		{"newline break", "aaaa\nbbbb\ncccc", 10, []string{"aaaa\nbbbb", "cccc"}},
		{"hard cut", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitHTML(tt.input, tt.maxLen))
		})
	}
}

func TestSplitHTML_RespectsLimit(t *testing.T) {
	text := strings.Repeat("row of data\n", 1000)
	for _, chunk := range splitHTML(text, maxTelegramMsgLen) {
		assert.LessOrEqual(t, len(chunk), maxTelegramMsgLen)
	}
}

func TestFormatReply_Text(t *testing.T) {
	chunks := formatReply(core.TextReply("**3** orders"))
	require.Len(t, chunks, 1)
	assert.Equal(t, "<strong>3</strong> orders", chunks[0])

	chunks = formatReply(core.TextReply(""))
	assert.Equal(t, []string{"(empty response)"}, chunks)
}

func TestFormatReply_Table(t *testing.T) {
	table := &core.Table{
		Columns: []string{"name", "note"},
		Rows:    [][]any{{"alice", "a<b"}},
	}

	chunks := formatReply(core.TableReply(table))
	require.Len(t, chunks, 1)
	assert.True(t, strings.HasPrefix(chunks[0], "<pre>"))
	assert.True(t, strings.HasSuffix(chunks[0], "</pre>"))
	assert.Contains(t, chunks[0], "a&lt;b")
}

func TestFormatReply_LargeTableStaysBalanced(t *testing.T) {
	rows := make([][]any, 0, 400)
	for i := 0; i < 400; i++ {
		rows = append(rows, []any{i, strings.Repeat("x", 30)})
	}

	chunks := formatReply(core.TableReply(&core.Table{Columns: []string{"n", "v"}, Rows: rows}))
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.Equal(t, 1, strings.Count(c, "<pre>"))
		assert.Equal(t, 1, strings.Count(c, "</pre>"))
	}
}

func TestFormatSummary(t *testing.T) {
	chunks := formatSummary("user asked about orders")
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "<strong>QueryBot summary</strong>")
	assert.Contains(t, chunks[0], "user asked about orders")
}

func TestMenuCommands(t *testing.T) {
	cmds := menuCommands([]core.Command{stubCommand{}})
	require.Len(t, cmds, 2)
	assert.Equal(t, "start", cmds[0].Text)
	assert.Equal(t, "history", cmds[1].Text)
}

type stubCommand struct{}

func (stubCommand) Name() string        { return "history" }
func (stubCommand) Description() string { return "Show conversation history" }
func (stubCommand) Execute(context.Context, string, []string) (string, error) {
	return "", nil
}
