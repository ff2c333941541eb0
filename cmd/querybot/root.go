package main

import (
	"context"
	"os"

	"github.com/sandevgo/querybot/internal/config"
	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/internal/service/ui"
	"github.com/sandevgo/querybot/pkg/log"
	"github.com/spf13/cobra"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:     "querybot",
	Short:   "QueryBot, a conversational MongoDB query assistant",
	Long:    `QueryBot answers natural-language questions about MongoDB collections over Telegram, the terminal or MCP.`,
	Version: core.Version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")

	tmpl, funcs := ui.HelpTemplate()
	cobra.AddTemplateFuncs(funcs)
	rootCmd.SetHelpTemplate(tmpl)
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	return log.NewContextWithLogger(ctx, debug || config.IsDebug())
}
