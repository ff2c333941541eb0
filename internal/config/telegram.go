package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/querybot/pkg/log"
)

type TelegramConfig struct {
	Token string `env:"QUERYBOT_TELEGRAM_TOKEN,required,notEmpty"`
	// OwnerID restricts the bot to a single user when non-zero.
	OwnerID     int64         `env:"QUERYBOT_TELEGRAM_OWNER_ID"`
	PollTimeout time.Duration `env:"QUERYBOT_TELEGRAM_POLL_TIMEOUT" envDefault:"10s"`
}

func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Telegram config")
	}
	return c
}
