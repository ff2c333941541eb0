package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/querybot/pkg/log"
)

type MongoConfig struct {
	URI            string        `env:"QUERYBOT_MONGODB_URI,required,notEmpty"`
	ConnectTimeout time.Duration `env:"QUERYBOT_MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
}

func NewMongoConfig(ctx context.Context) *MongoConfig {
	c := &MongoConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse MongoDB config")
	}
	return c
}
