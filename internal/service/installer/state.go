package installer

import (
	"fmt"
	"sort"
	"strings"
)

const (
	envProvider      = "QUERYBOT_MODEL_PROVIDER"
	envModel         = "QUERYBOT_MODEL"
	envMongoURI      = "QUERYBOT_MONGODB_URI"
	envChannel       = "QUERYBOT_CHAT_CHANNEL"
	envTelegramToken = "QUERYBOT_TELEGRAM_TOKEN"
	envTelegramOwner = "QUERYBOT_TELEGRAM_OWNER_ID"
	envEnableTG      = "QUERYBOT_ENABLE_TELEGRAM"
	envEnableCLI     = "QUERYBOT_ENABLE_CLI"
	envOllamaURL     = "QUERYBOT_OLLAMA_BASE_URL"
	envDebug         = "QUERYBOT_DEBUG"

	channelTelegram = "telegram"
	channelCLI      = "cli"
)

type InstallState struct {
	EnvVars map[string]string
}

func NewInstallState() *InstallState {
	return &InstallState{
		EnvVars: make(map[string]string),
	}
}

func (s *InstallState) provider() string {
	return strings.ToLower(s.EnvVars[envProvider])
}

func (s *InstallState) telegramSelected() bool {
	return s.EnvVars[envChannel] == channelTelegram
}

// finalize derives transport flags from the chosen channel and drops
// wizard-only keys.
func (s *InstallState) finalize() {
	tg := s.telegramSelected()
	s.EnvVars[envEnableTG] = fmt.Sprint(tg)
	s.EnvVars[envEnableCLI] = fmt.Sprint(!tg)
	if !tg {
		delete(s.EnvVars, envTelegramToken)
		delete(s.EnvVars, envTelegramOwner)
	}

	if s.provider() == "ollama" && s.EnvVars[envOllamaURL] == "" {
		s.EnvVars[envOllamaURL] = "http://localhost:11434"
	}
	if s.EnvVars[envDebug] == "" {
		s.EnvVars[envDebug] = "0"
	}

	for k, v := range s.EnvVars {
		if v == "" {
			delete(s.EnvVars, k)
		}
	}
	delete(s.EnvVars, envChannel)
}

// dotenv renders the collected values in .env format with stable ordering.
func (s *InstallState) dotenv() string {
	keys := make([]string, 0, len(s.EnvVars))
	for k := range s.EnvVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, s.EnvVars[k])
	}
	return b.String()
}
