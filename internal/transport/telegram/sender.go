package telegram

import (
	"context"
	"strings"

	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/pkg/conv"
	"github.com/sandevgo/querybot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

type sender struct {
	bot *tele.Bot
}

func newSender(bot *tele.Bot) *sender {
	return &sender{bot: bot}
}

func (s *sender) sendReply(ctx context.Context, to tele.Recipient, reply core.Reply) error {
	return s.sendChunks(ctx, to, formatReply(reply), false)
}

// sendSummary delivers the conversation summary as a separate, silent message.
func (s *sender) sendSummary(ctx context.Context, to tele.Recipient, summary string) error {
	return s.sendChunks(ctx, to, formatSummary(summary), true)
}

// sendChunks sends HTML chunks in order. A chunk Telegram refuses to parse
// is retried once as plain text.
func (s *sender) sendChunks(ctx context.Context, to tele.Recipient, chunks []string, silent bool) error {
	logger := log.FromCtx(ctx)

	for i, chunk := range chunks {
		opts := []any{tele.ModeHTML}
		if silent {
			opts = append(opts, tele.Silent)
		}

		if _, err := s.bot.Send(to, chunk, opts...); err != nil {
			logger.Warn().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("html send failed, retrying as plain text")
			if _, err := s.bot.Send(to, conv.HTMLToText(chunk)); err != nil {
				return err
			}
		}
	}
	return nil
}

// formatReply renders a reply as Telegram HTML chunks. Tables are split on
// row boundaries before wrapping so that every chunk is a closed <pre> block.
func formatReply(reply core.Reply) []string {
	if reply.IsTable() {
		parts := splitHTML(reply.Table.String(), maxTelegramMsgLen-len("<pre></pre>"))
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, conv.Preformatted(p))
		}
		return out
	}

	text := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(reply.Text)))
	if text == "" {
		text = "(empty response)"
	}
	return splitHTML(text, maxTelegramMsgLen)
}

func formatSummary(summary string) []string {
	md := "**" + core.BotName + " summary**\n\n" + summary
	return splitHTML(strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md))), maxTelegramMsgLen)
}

// splitHTML splits text into chunks of at most maxLen bytes, preferring
// newline boundaries past the first third of a chunk.
func splitHTML(text string, maxLen int) []string {
	var chunks []string
	for len(text) > maxLen {
		cut := maxLen
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/3 {
			cut = idx
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" || len(chunks) == 0 {
		chunks = append(chunks, text)
	}
	return chunks
}
