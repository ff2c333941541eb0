package chat

import (
	"context"
	"strings"

	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/internal/service/intent"
	"github.com/sandevgo/querybot/internal/service/memory"
	"github.com/sandevgo/querybot/internal/service/session"
	"github.com/sandevgo/querybot/pkg/log"
)

const Welcome = "Welcome to MongoDB Query Chatbot! Please specify both database and collection names in your queries."

type Sessions interface {
	Get(id string) (*session.Session, bool)
	Start(id string) *session.Session
}

type Resolver interface {
	Resolve(ctx context.Context, target *intent.Target, history []core.Message, message string) core.Reply
}

// Response is what a transport sends for one inbound message: the primary
// reply and, when the turn closed a summarization interval, the summary.
type Response struct {
	Primary core.Reply
	Summary string
}

func (r Response) HasSummary() bool {
	return r.Summary != ""
}

// Handler is the transport-independent message path.
type Handler struct {
	sessions Sessions
	resolver Resolver
	router   core.CmdRouter
}

func NewHandler(sessions Sessions, resolver Resolver, router core.CmdRouter) *Handler {
	return &Handler{
		sessions: sessions,
		resolver: resolver,
		router:   router,
	}
}

// Start begins a fresh session under sessionID and returns the welcome text.
func (h *Handler) Start(ctx context.Context, sessionID string) string {
	h.sessions.Start(sessionID)
	log.FromCtx(ctx).Info().Str("session", sessionID).Msg("session started")
	return Welcome
}

// Handle processes one user message. Commands are answered without being
// recorded in the conversation.
func (h *Handler) Handle(ctx context.Context, sessionID, text string) Response {
	text = strings.TrimSpace(text)
	logger := log.FromCtx(ctx).With().Str("session", sessionID).Logger()
	ctx = logger.WithContext(ctx)

	if h.router != nil {
		if out, ok := h.router.Execute(ctx, sessionID, text); ok {
			return Response{Primary: core.TextReply(out)}
		}
	}

	sess, created := h.sessions.Get(sessionID)
	if created {
		logger.Info().Msg("session started implicitly")
	}

	sess.Lock()
	defer sess.Unlock()

	reply := h.resolver.Resolve(ctx, &sess.Target, sess.Memory.ChatLog(), text)
	sess.Memory.AddInteraction(ctx, text, reply)

	resp := Response{Primary: reply}
	if last, ok := sess.Memory.LastTurn(); ok && last.IsSummary {
		resp.Summary = last.Bot.Text
		logger.Info().Int("count", last.SummaryAt).Msg("conversation summarized")
	}
	return resp
}

// NewMemoryFactory returns a constructor for per-session memory managers.
func NewMemoryFactory(summarizer memory.Summarizer, interval int, counter core.TokenCounter) func() *memory.Manager {
	return func() *memory.Manager {
		return memory.NewManager(summarizer, interval, counter)
	}
}
