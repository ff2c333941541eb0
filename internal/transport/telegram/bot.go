package telegram

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/querybot/internal/config"
	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/internal/service/chat"
	"github.com/sandevgo/querybot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

// Handler is the transport-independent message path.
type Handler interface {
	Start(ctx context.Context, sessionID string) string
	Handle(ctx context.Context, sessionID, text string) chat.Response
}

type Bot struct {
	bot     *tele.Bot
	handler Handler
	router  core.CmdRouter
	sender  *sender
	ownerID int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	handler Handler,
	router core.CmdRouter,
) (*Bot, error) {
	logger := log.FromCtx(ctx)

	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: cfg.PollTimeout},
		OnError: func(err error, c tele.Context) {
			logger.Error().Err(err).Msg("telegram handler failed")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		handler: handler,
		router:  router,
		sender:  newSender(b),
		ownerID: cfg.OwnerID,
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	if bot.ownerID != 0 {
		b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
			return func(c tele.Context) error {
				if c.Sender() == nil || c.Sender().ID != bot.ownerID {
					return nil
				}
				return next(c)
			}
		})
	}

	b.Handle("/start", bot.handleStart)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	if b.router != nil {
		if err := b.bot.SetCommands(menuCommands(b.router.ListCommands())); err != nil {
			logger.Warn().Err(err).Msg("failed to publish bot commands")
		}
	}

	logger.Info().Str("bot", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleStart(c tele.Context) error {
	ctx := baseContext(c)
	return c.Send(b.handler.Start(ctx, sessionID(c)))
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := baseContext(c)
	logger := log.FromCtx(ctx).With().Int64("chat", c.Chat().ID).Logger()

	_ = c.Notify(tele.Typing)

	resp := b.handler.Handle(ctx, sessionID(c), c.Text())

	var errs []error
	if err := b.sender.sendReply(ctx, c.Chat(), resp.Primary); err != nil {
		errs = append(errs, err)
	}
	if resp.HasSummary() {
		if err := b.sender.sendSummary(ctx, c.Chat(), resp.Summary); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		logger.Error().Err(err).Msg("failed to deliver reply")
		return err
	}
	return nil
}

func baseContext(c tele.Context) context.Context {
	if ctx, ok := c.Get(baseContextKey).(context.Context); ok {
		return ctx
	}
	return context.Background()
}

// sessionID keys conversations by chat so that groups share one session.
func sessionID(c tele.Context) string {
	return fmt.Sprintf("telegram-%d", c.Chat().ID)
}

func menuCommands(cmds []core.Command) []tele.Command {
	out := make([]tele.Command, 0, len(cmds)+1)
	out = append(out, tele.Command{Text: "start", Description: "Start a new conversation"})
	for _, cmd := range cmds {
		out = append(out, tele.Command{Text: cmd.Name(), Description: cmd.Description()})
	}
	return out
}
