package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/internal/service/chat"
	"github.com/sandevgo/querybot/internal/service/session"
	"github.com/sandevgo/querybot/pkg/log"
)

const (
	prompt     = ">>> "
	exitPhrase = "exit"
	summaryTag = "\033[38;5;240m[Summary]\033[0m"
)

// Handler is the transport-independent message path.
type Handler interface {
	Start(ctx context.Context, sessionID string) string
	Handle(ctx context.Context, sessionID, text string) chat.Response
}

type HistoryConfig interface {
	GetRuntimePath() string
	GetHistoryPath() string
}

type ReadLine struct {
	handler   Handler
	rl        *readline.Instance
	sessionID string
}

func NewReadLine(handler Handler, cfg HistoryConfig) (*ReadLine, error) {
	if err := os.MkdirAll(cfg.GetRuntimePath(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     cfg.GetHistoryPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       exitPhrase,
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		handler:   handler,
		rl:        rl,
		sessionID: "cli-" + session.NewID(),
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("session", r.sessionID).Msg("readline chat started, type 'exit' to quit")

	out := r.rl.Stdout()
	fmt.Fprintln(out, r.handler.Start(ctx, r.sessionID))

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := r.rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if len(line) == 0 {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		line = strings.TrimSpace(line)
		if line == exitPhrase {
			return nil
		}
		if line == "" {
			continue
		}

		writeResponse(out, r.handler.Handle(ctx, r.sessionID, line))
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

func writeResponse(w io.Writer, resp chat.Response) {
	fmt.Fprintln(w, renderReply(resp.Primary))
	if resp.HasSummary() {
		fmt.Fprintf(w, "%s\n%s\n", summaryTag, resp.Summary)
	}
}

func renderReply(reply core.Reply) string {
	if reply.IsTable() {
		return strings.TrimRight(reply.Table.String(), "\n")
	}
	return reply.Text
}
