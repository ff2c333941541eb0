package command

import (
	"fmt"
	"strings"
)

// ResponseFormatter builds command replies in the Markdown subset that
// renders on Telegram and stays legible as plain terminal text.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

func (f *ResponseFormatter) Info(title string) string {
	return fmt.Sprintf("**%s**\n", title)
}

func (f *ResponseFormatter) Success(message string) string {
	return fmt.Sprintf("✅ %s\n", message)
}

func (f *ResponseFormatter) Error(err error) string {
	return fmt.Sprintf("❌ **Command Error**: %s\n", err)
}

func (f *ResponseFormatter) Label(label, value string) string {
	return fmt.Sprintf("**%s**  ›  `%s`\n", label, value)
}

func (f *ResponseFormatter) List(items []string) string {
	if len(items) == 0 {
		return "(none)\n"
	}
	var sb strings.Builder
	for _, item := range items {
		fmt.Fprintf(&sb, "› %s\n", item)
	}
	return sb.String()
}

func (f *ResponseFormatter) Tip(text string) string {
	return "**Tip**: " + text + "\n"
}

func (f *ResponseFormatter) Combine(sections ...string) string {
	return strings.Join(sections, "\n")
}
