package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/pkg/log"
)

const summarySystemPrompt = "You summarize conversations between a user and a database assistant. Output only the summary text."

// LLMSummarizer asks the language model for a progressive summary.
type LLMSummarizer struct {
	ai core.AIProvider
}

func NewLLMSummarizer(ai core.AIProvider) *LLMSummarizer {
	return &LLMSummarizer{ai: ai}
}

func (s *LLMSummarizer) Summarize(ctx context.Context, messages []core.Message, existing string) (string, error) {
	conversation := formatConversation(messages)
	if conversation == "" {
		return "", fmt.Errorf("nothing to summarize")
	}

	log.FromCtx(ctx).Debug().Int("count", len(messages)).Msg("requesting conversation summary")

	resp, err := s.ai.Chat(ctx, []core.Message{
		{Role: core.RoleSystem, Content: summarySystemPrompt},
		{Role: core.RoleUser, Content: buildSummaryPrompt(existing, conversation)},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("llm chat: %w", err)
	}

	return strings.TrimSpace(resp.Content), nil
}

func formatConversation(msgs []core.Message) string {
	var b strings.Builder
	for _, m := range msgs {
		if m.Role == core.RoleTool || m.Role == core.RoleSystem || m.Content == "" {
			continue
		}
		b.WriteString(strings.ToUpper(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteByte('\n')
	}
	return b.String()
}

func buildSummaryPrompt(existing, conversation string) string {
	if existing == "" {
		existing = "(none)"
	}
	return fmt.Sprintf(
		`Progressively summarize the lines of conversation provided, adding onto the previous summary and returning a new summary. Mention the databases and collections that were queried and what was found. Current summary: %s New lines of conversation: %s New summary:`,
		existing,
		conversation,
	)
}
