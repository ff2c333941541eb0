package srv

import (
	"context"
	"time"

	"github.com/sandevgo/querybot/pkg/log"
)

const shutdownTimeout = 10 * time.Second

// Service is a long-running component with an explicit lifecycle.
type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// StartServices launches every service in its own goroutine. A start failure
// is fatal because the bot cannot run with a missing transport.
func StartServices(ctx context.Context, services []Service) {
	logger := log.FromCtx(ctx)
	for _, service := range services {
		go func(service Service) {
			if err := service.Start(ctx); err != nil {
				logger.Fatal().Err(err).Msgf("%T failed to start", service)
			}
		}(service)
	}
}

// ShutdownServices blocks until ctx is done, then stops services in reverse
// start order so that dependencies outlive their consumers.
func ShutdownServices(ctx context.Context, services []Service) {
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	logger := log.FromCtx(ctx)
	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(stopCtx); err != nil {
			logger.Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
}
