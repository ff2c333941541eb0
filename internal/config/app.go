package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/querybot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"QUERYBOT_RUNTIME_PATH" envDefault:".querybot"`

	// LLM provider selection
	Provider            string `env:"QUERYBOT_MODEL_PROVIDER" envDefault:"ollama"`
	Model               string `env:"QUERYBOT_MODEL" envDefault:"hermes3:8b"`
	AnthropicAPIKey     string `env:"QUERYBOT_ANTHROPIC_API_KEY"`
	OpenAIAPIKey        string `env:"QUERYBOT_OPENAI_API_KEY"`
	OpenRouterAPIKey    string `env:"QUERYBOT_OPENROUTER_API_KEY"`
	OllamaAPIKey        string `env:"QUERYBOT_OLLAMA_API_KEY"`
	OllamaBaseURL       string `env:"QUERYBOT_OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	CustomOpenAIBaseURL string `env:"QUERYBOT_CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"QUERYBOT_CUSTOM_OPENAI_API_KEY"`

	// Transport Flags
	EnableTelegram bool `env:"QUERYBOT_ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"QUERYBOT_ENABLE_CLI" envDefault:"true"`

	// Conversation memory
	SummaryInterval int `env:"QUERYBOT_SUMMARY_INTERVAL" envDefault:"5"`
	AgentMaxSteps   int `env:"QUERYBOT_AGENT_MAX_STEPS" envDefault:"8"`

	EnableJournal bool `env:"QUERYBOT_ENABLE_JOURNAL" envDefault:"true"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	if !filepath.IsAbs(c.RuntimePath) {
		c.RuntimePath = GetRuntimePath()
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetJournalPath() string {
	return filepath.Join(c.RuntimePath, "journal.db")
}

func (c AppConfig) GetSystemPath() string {
	return filepath.Join(c.RuntimePath, "SYSTEM.md")
}

func (c AppConfig) GetAgentMaxSteps() int {
	if c.AgentMaxSteps <= 0 {
		return 8
	}
	return c.AgentMaxSteps
}

func (c AppConfig) GetHistoryPath() string {
	return filepath.Join(c.RuntimePath, "input_history")
}

func (c AppConfig) GetSummaryInterval() int {
	if c.SummaryInterval <= 0 {
		return 5
	}
	return c.SummaryInterval
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}

func (c AppConfig) IsCLISelected() bool {
	return c.EnableCLI
}

func (c AppConfig) GetModel() string               { return c.Model }
func (c AppConfig) GetProvider() string            { return c.Provider }
func (c AppConfig) GetAnthropicAPIKey() string     { return c.AnthropicAPIKey }
func (c AppConfig) GetOpenAIAPIKey() string        { return c.OpenAIAPIKey }
func (c AppConfig) GetOpenRouterAPIKey() string    { return c.OpenRouterAPIKey }
func (c AppConfig) GetOllamaAPIKey() string        { return c.OllamaAPIKey }
func (c AppConfig) GetOllamaBaseURL() string       { return c.OllamaBaseURL }
func (c AppConfig) GetCustomOpenAIBaseURL() string { return c.CustomOpenAIBaseURL }
func (c AppConfig) GetCustomOpenAIAPIKey() string  { return c.CustomOpenAIAPIKey }
