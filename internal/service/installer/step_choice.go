package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ChoiceStep picks one option and stores its id under key.
type ChoiceStep struct {
	title   string
	key     string
	choices []item
	cursor  int
}

func NewProviderStep() Step {
	return &ChoiceStep{
		title: "Select your AI Provider:",
		key:   envProvider,
		choices: []item{
			{id: "openai", title: "OpenAI"},
			{id: "anthropic", title: "Anthropic"},
			{id: "openrouter", title: "OpenRouter"},
			{id: "ollama", title: "Ollama", desc: "local models"},
		},
	}
}

func NewChannelStep() Step {
	return &ChoiceStep{
		title: "Select your Chat Channel:",
		key:   envChannel,
		choices: []item{
			{id: channelCLI, title: "Terminal"},
			{id: channelTelegram, title: "Telegram"},
		},
	}
}

func (s *ChoiceStep) Init() tea.Cmd {
	return nil
}

func (s *ChoiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch key.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.choices)-1 {
			s.cursor++
		}
	case "enter":
		state.EnvVars[s.key] = s.choices[s.cursor].id
		return nil, nil
	}
	return s, nil
}

func (s *ChoiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + "\n\n")
	for i, c := range s.choices {
		line := c.title
		if c.desc != "" {
			line += " (" + c.desc + ")"
		}
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("> %s", line)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", line)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
