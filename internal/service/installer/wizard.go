package installer

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/querybot/internal/core"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

var ErrInterrupted = errors.New("installation interrupted")

// Step is one screen of the wizard. Returning a nil Step from Update
// advances to the next screen.
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

func getSteps(runtimePath string) []Step {
	return []Step{
		NewProviderStep(),
		NewAPIKeyStep(),
		NewModelStep(),
		NewMongoURIStep(),
		NewChannelStep(),
		NewTelegramTokenStep(),
		NewTelegramOwnerStep(),
		NewSaveStep(runtimePath),
	}
}

type item struct {
	id    string
	title string
	desc  string
}

type nextMsg struct{}

type model struct {
	steps       []Step
	currentStep int
	state       *InstallState
	quitting    bool
	width       int
	height      int
}

func newModel(steps []Step) model {
	return model{
		steps: steps,
		state: NewInstallState(),
	}
}

func (m model) Init() tea.Cmd {
	if len(m.steps) == 0 {
		return tea.Quit
	}
	return m.steps[0].Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	if m.currentStep >= len(m.steps) {
		return m, tea.Quit
	}

	next, cmd := m.steps[m.currentStep].Update(msg, m.state, m.width, m.height)
	if next == nil {
		m.currentStep++
		if m.currentStep >= len(m.steps) {
			return m, tea.Quit
		}
		return m, m.steps[m.currentStep].Init()
	}

	m.steps[m.currentStep] = next
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return "Installation cancelled.\n"
	}
	if m.currentStep >= len(m.steps) {
		return "Configuration complete!\n"
	}

	header := titleStyle.Render(fmt.Sprintf("Installing %s %s", core.BotName, core.Version))
	progress := itemStyle.Render(fmt.Sprintf("step %d of %d", m.currentStep+1, len(m.steps)))
	return header + "\n" + progress + "\n\n" + m.steps[m.currentStep].View(m.state)
}

// RunWizard collects configuration interactively and writes it into
// runtimePath.
func RunWizard(runtimePath string) (*InstallState, error) {
	p := tea.NewProgram(newModel(getSteps(runtimePath)), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	final := m.(model)
	if final.quitting {
		return nil, ErrInterrupted
	}
	return final.state, nil
}
