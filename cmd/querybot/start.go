package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/querybot/pkg/log"
	"github.com/sandevgo/querybot/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the chat transports",
	Long:  `Connects to MongoDB and the language model, then serves the configured transports (Telegram, terminal) until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting querybot")

		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		services, err := initTransports(ctx, a, stop)
		if err != nil {
			a.close(ctx)
			return err
		}
		services = append(a.cleanups, services...)

		srv.StartServices(ctx, services)
		srv.ShutdownServices(ctx, services)

		logger.Info().Msg("querybot has been shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
