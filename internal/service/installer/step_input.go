package installer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var apiKeyEnv = map[string]string{
	"openai":     "QUERYBOT_OPENAI_API_KEY",
	"anthropic":  "QUERYBOT_ANTHROPIC_API_KEY",
	"openrouter": "QUERYBOT_OPENROUTER_API_KEY",
	"ollama":     "QUERYBOT_OLLAMA_API_KEY",
}

var defaultModels = map[string]string{
	"openai":     "gpt-4o-mini",
	"anthropic":  "claude-3-5-haiku-latest",
	"openrouter": "openai/gpt-4o-mini",
	"ollama":     "hermes3:8b",
}

// InputStep collects one free-text value. Its key and defaults may depend on
// earlier answers, so it is configured lazily on the first update.
type InputStep struct {
	title       string
	placeholder string
	secret      bool
	optional    bool

	key      func(*InstallState) string
	initial  func(*InstallState) string
	validate func(string) error
	skip     func(*InstallState) bool

	input    textinput.Model
	resolved string
	ready    bool
	err      error
}

func NewAPIKeyStep() Step {
	return &InputStep{
		title:  "Enter your API Key",
		secret: true,
		key:    func(s *InstallState) string { return apiKeyEnv[s.provider()] },
		skip:   func(s *InstallState) bool { return apiKeyEnv[s.provider()] == "" },
	}
}

func NewModelStep() Step {
	return &InputStep{
		title:   "Enter the model name",
		key:     func(*InstallState) string { return envModel },
		initial: func(s *InstallState) string { return defaultModels[s.provider()] },
	}
}

func NewMongoURIStep() Step {
	return &InputStep{
		title:       "Enter your MongoDB connection URI",
		placeholder: "mongodb://localhost:27017",
		secret:      true,
		key:         func(*InstallState) string { return envMongoURI },
		validate:    validateMongoURI,
	}
}

func NewTelegramTokenStep() Step {
	return &InputStep{
		title:       "Enter your Telegram Bot Token",
		placeholder: "123456789:ABCDEF...",
		secret:      true,
		key:         func(*InstallState) string { return envTelegramToken },
		skip:        func(s *InstallState) bool { return !s.telegramSelected() },
		validate:    required,
	}
}

func NewTelegramOwnerStep() Step {
	return &InputStep{
		title:       "Enter your Telegram User ID",
		placeholder: "123456789",
		optional:    true,
		key:         func(*InstallState) string { return envTelegramOwner },
		skip:        func(s *InstallState) bool { return !s.telegramSelected() },
		validate:    validateOwnerID,
	}
}

func (s *InputStep) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return nextMsg{} })
}

func (s *InputStep) prepare(state *InstallState) bool {
	if s.skip != nil && s.skip(state) {
		return false
	}

	s.resolved = s.key(state)
	s.input = textinput.New()
	s.input.Focus()
	s.input.CharLimit = 512
	s.input.Width = 50
	s.input.Placeholder = s.placeholder
	if s.secret {
		s.input.EchoMode = textinput.EchoPassword
		s.input.EchoCharacter = '*'
	}
	if s.initial != nil {
		s.input.SetValue(s.initial(state))
	}
	s.ready = true
	return true
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !s.ready {
		if !s.prepare(state) {
			return nil, nil
		}
		return s, textinput.Blink
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		value := s.input.Value()
		if s.validate != nil && !(s.optional && value == "") {
			if err := s.validate(value); err != nil {
				s.err = err
				return s, nil
			}
		}
		state.EnvVars[s.resolved] = value
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	if !s.ready {
		return "Loading...\n"
	}

	hint := ""
	if s.optional {
		hint = " (optional, press Enter to skip)"
	}

	view := fmt.Sprintf("%s%s:\n\n%s\n\n", s.title, hint, s.input.View())
	if s.err != nil {
		view += errorStyle.Render(s.err.Error()) + "\n\n"
	}
	return view + "(press enter to confirm)\n"
}
