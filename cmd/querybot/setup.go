package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/sandevgo/querybot/internal/config"
	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/internal/providers/llm"
	"github.com/sandevgo/querybot/internal/providers/tools"
	"github.com/sandevgo/querybot/internal/service/agent"
	"github.com/sandevgo/querybot/internal/service/chat"
	"github.com/sandevgo/querybot/internal/service/command"
	"github.com/sandevgo/querybot/internal/service/intent"
	"github.com/sandevgo/querybot/internal/service/memory"
	"github.com/sandevgo/querybot/internal/service/query"
	"github.com/sandevgo/querybot/internal/service/session"
	"github.com/sandevgo/querybot/internal/storage/mongo"
	"github.com/sandevgo/querybot/internal/storage/sqlite"
	"github.com/sandevgo/querybot/internal/transport/cli"
	"github.com/sandevgo/querybot/internal/transport/telegram"
	"github.com/sandevgo/querybot/pkg/log"
	"github.com/sandevgo/querybot/pkg/srv"
	"github.com/sandevgo/querybot/pkg/tokens"
)

// app holds the wired components shared by the transports.
type app struct {
	cfg      *config.AppConfig
	handler  *chat.Handler
	router   *command.Router
	cleanups []srv.Service
}

func newApp(ctx context.Context) (*app, error) {
	logger := log.FromCtx(ctx)
	loadEnv(ctx)

	appCfg := config.NewAppConfig(ctx)

	// Data layer
	store, journal, cleanups, err := initData(ctx, appCfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: appCfg, cleanups: cleanups}

	toolbox := tools.NewToolbox(tools.NewQuery(query.NewExecutor(store, journal)))

	// Language model
	provider, err := llm.NewDynamicProvider(ctx, appCfg)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	counter := tokens.NewCounter()
	if err := counter.Err(); err != nil {
		logger.Warn().Err(err).Msg("tokenizer unavailable, using estimates")
	}

	ag := agent.NewAgent(appCfg, provider, toolbox, appCfg.GetAgentMaxSteps())
	sessions := session.NewStore(chat.NewMemoryFactory(
		memory.NewLLMSummarizer(provider),
		appCfg.GetSummaryInterval(),
		counter,
	))

	a.router = command.New(command.NewCommands(sessions, journal, provider, toolbox))
	a.handler = chat.NewHandler(sessions, intent.NewResolver(ag), a.router)

	logger.Info().
		Str("provider", provider.GetProvider()).
		Str("model", provider.GetModel()).
		Int("summary_interval", appCfg.GetSummaryInterval()).
		Msg("querybot wired")
	return a, nil
}

func (a *app) close(ctx context.Context) {
	for _, c := range a.cleanups {
		_ = c.Shutdown(ctx)
	}
}

// initData connects MongoDB and, when enabled, opens the query journal.
func initData(ctx context.Context, appCfg *config.AppConfig) (*mongo.Store, core.JournalRepository, []srv.Service, error) {
	client, err := mongo.NewClient(ctx, config.NewMongoConfig(ctx))
	if err != nil {
		return nil, nil, nil, err
	}
	store := mongo.NewStore(client)
	cleanups := []srv.Service{srv.NewCleanup(store.Close)}

	if !appCfg.EnableJournal {
		return store, nil, cleanups, nil
	}

	db, err := sqlite.NewDB(ctx, appCfg.GetJournalPath())
	if err != nil {
		_ = store.Close()
		return nil, nil, nil, err
	}
	return store, sqlite.NewJournalRepo(db), append(cleanups, srv.NewCleanup(db.Close)), nil
}

func newExecutor(ctx context.Context) (*query.Executor, func(), error) {
	appCfg := config.NewAppConfig(ctx)
	store, journal, cleanups, err := initData(ctx, appCfg)
	if err != nil {
		return nil, nil, err
	}
	closeAll := func() {
		for _, c := range cleanups {
			_ = c.Shutdown(ctx)
		}
	}
	return query.NewExecutor(store, journal), closeAll, nil
}

func newToolbox(ctx context.Context) (*tools.Toolbox, func(), error) {
	exec, closeAll, err := newExecutor(ctx)
	if err != nil {
		return nil, nil, err
	}
	return tools.NewToolbox(tools.NewQuery(exec)), closeAll, nil
}

func initTransports(ctx context.Context, a *app, stop context.CancelFunc) ([]srv.Service, error) {
	var services []srv.Service

	if a.cfg.IsTelegramSelected() {
		bot, err := telegram.NewBot(ctx, config.NewTelegramConfig(ctx), a.handler, a.router)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	if a.cfg.IsCLISelected() {
		rl, err := cli.NewReadLine(a.handler, a.cfg)
		if err != nil {
			return nil, err
		}
		services = append(services, &stopOnExit{Service: rl, stop: stop})
	}

	if len(services) == 0 {
		return nil, errors.New("no transport enabled, set QUERYBOT_ENABLE_TELEGRAM or QUERYBOT_ENABLE_CLI")
	}
	return services, nil
}

// stopOnExit ends the process when an interactive transport returns.
type stopOnExit struct {
	srv.Service
	stop context.CancelFunc
}

func (s *stopOnExit) Start(ctx context.Context) error {
	defer s.stop()
	return s.Service.Start(ctx)
}

func loadEnv(ctx context.Context) {
	logger := log.FromCtx(ctx)
	envFile := config.GetEnvFilePath()

	if _, err := os.Stat(envFile); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn().Err(err).Str("path", envFile).Msg("cannot stat .env file")
		}
		return
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return
	}
	logger.Debug().Str("path", envFile).Msg("loaded .env file")
}
