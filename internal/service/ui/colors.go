package ui

import "github.com/charmbracelet/lipgloss"

// Plain ANSI colors keep the help output readable on light and dark terminals.
var (
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	DescStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	FlagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

const helpTemplate = `
{{StyleTitle "USAGE"}}
  {{StyleUsage .UseLine}}
{{if gt (len .Commands) 0}}{{StyleTitle "COMMANDS"}}
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding}} {{StyleDesc .Short}}{{end}}
{{end}}{{end}}
{{if .HasAvailableLocalFlags}}{{StyleTitle "FLAGS"}}
{{StyleFlag (.LocalFlags.FlagUsages | trimTrailingWhitespaces)}}
{{end}}
`

// HelpTemplate returns the colored cobra help template together with the
// template funcs it references.
func HelpTemplate() (string, map[string]any) {
	return helpTemplate, map[string]any{
		"StyleTitle": func(s string) string { return TitleStyle.Render(s) },
		"StyleUsage": func(s string) string { return UsageStyle.Render(s) },
		"StyleFlag":  func(s string) string { return FlagStyle.Render(s) },
		"StyleDesc":  func(s string) string { return DescStyle.Render(s) },
	}
}
