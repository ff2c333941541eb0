package main

import (
	"github.com/joho/godotenv"
	"github.com/sandevgo/querybot/internal/config"
	"github.com/sandevgo/querybot/internal/service/installer"
	"github.com/sandevgo/querybot/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:          "install",
	Short:        "Configure QueryBot interactively",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		runtimePath := config.GetRuntimePath()

		if _, err := installer.RunWizard(runtimePath); err != nil {
			return err
		}

		envPath := config.GetEnvFilePath()
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		logger.Info().Str("path", runtimePath).Msg("runtime directory initialized")
		logger.Info().Msg("installation complete, run 'querybot start'")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
