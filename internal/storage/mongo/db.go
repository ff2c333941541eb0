package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/querybot/internal/config"
	"github.com/sandevgo/querybot/pkg/log"
	"github.com/sandevgo/querybot/pkg/retry"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewClient connects to MongoDB and waits until the primary answers a ping.
// The ping is retried with backoff because the server may still be starting.
func NewClient(ctx context.Context, cfg *config.MongoConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetAppName("querybot")

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	logger := log.FromCtx(ctx)
	retrier := retry.NewRetrier(&retry.Config{
		MaxRetries:    3,
		BackoffFactor: 2,
		InitialDelay:  500 * time.Millisecond,
		MaxDelay:      cfg.ConnectTimeout,
		Jitter:        100 * time.Millisecond,
	})

	err = retrier.Do(ctx, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			if isAuthError(err) {
				return retry.Permanent(err)
			}
			logger.Warn().Err(err).Msg("mongodb ping failed")
			return err
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info().Msg("connected to mongodb")
	return client, nil
}

// codeAuthFailed is the server error code for AuthenticationFailed.
const codeAuthFailed = 18

// isAuthError reports credential failures, which a retry cannot fix.
func isAuthError(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == codeAuthFailed {
		return true
	}
	return strings.Contains(err.Error(), "auth error")
}
