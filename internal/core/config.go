package core

type AppConfig interface {
	GetRuntimePath() string
	GetJournalPath() string
	GetSummaryInterval() int
	IsTelegramSelected() bool
	IsCLISelected() bool
}

type ProviderConfig interface {
	GetModel() string
	GetProvider() string
	GetAnthropicAPIKey() string
	GetOpenAIAPIKey() string
	GetOpenRouterAPIKey() string
	GetOllamaAPIKey() string
	GetOllamaBaseURL() string
	GetCustomOpenAIBaseURL() string
	GetCustomOpenAIAPIKey() string
}

type PromptConfig interface {
	GetSystemPath() string
}
