package installer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/querybot/internal/service/agent"
)

// SaveStep finalizes the collected values and writes .env and SYSTEM.md
// into the runtime directory.
type SaveStep struct {
	runtimePath string
	err         error
	done        bool
}

func NewSaveStep(runtimePath string) Step {
	return &SaveStep{runtimePath: runtimePath}
}

func (s *SaveStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.done {
		return nil, nil
	}
	if s.err != nil {
		return s, nil
	}

	state.finalize()
	if err := writeRuntimeFiles(s.runtimePath, state); err != nil {
		s.err = err
		return s, nil
	}

	s.done = true
	return nil, nil
}

func (s *SaveStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.done {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}

// writeRuntimeFiles refuses to overwrite an existing .env. SYSTEM.md is only
// written when missing so that local prompt edits survive a reinstall.
func writeRuntimeFiles(dir string, state *InstallState) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}

	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		return fmt.Errorf(".env file already exists at %s", envPath)
	}
	if err := os.WriteFile(envPath, []byte(state.dotenv()), 0600); err != nil {
		return err
	}

	promptPath := filepath.Join(dir, "SYSTEM.md")
	if _, err := os.Stat(promptPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(promptPath, []byte(agent.DefaultSystemPrompt+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", promptPath, err)
		}
	}
	return nil
}
