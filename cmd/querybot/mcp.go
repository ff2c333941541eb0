package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/querybot/internal/transport/mcp"
	"github.com/sandevgo/querybot/pkg/log"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:          "mcp",
	Short:        "Serve the query tools over MCP stdio",
	Long:         `Runs an MCP server on stdin/stdout exposing the mongodb_query tool. Logs go to stderr.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// stdout carries the protocol
		var flushLog func()
		ctx, flushLog = log.NewContextWithWriter(ctx, debug, os.Stderr)
		defer flushLog()

		loadEnv(ctx)

		tb, closeData, err := newToolbox(ctx)
		if err != nil {
			return err
		}
		defer closeData()

		server, err := mcp.NewServer(ctx, tb)
		if err != nil {
			return err
		}
		return server.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
