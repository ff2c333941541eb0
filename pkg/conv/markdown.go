package conv

import (
	"html"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

const (
	mdExtensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	mdHTMLFlags  = mdhtml.CommonFlags | mdhtml.HrefTargetBlank
)

// telegramPolicy keeps only the tags Telegram accepts in HTML parse mode.
// https://core.telegram.org/bots/api#html-style
var telegramPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("class").OnElements("code")
	return p
}()

// MarkdownToTelegramHTML renders model output for Telegram.
func MarkdownToTelegramHTML(md []byte) string {
	p := parser.NewWithExtensions(mdExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdHTMLFlags})
	return string(telegramPolicy.SanitizeBytes(markdown.Render(p.Parse(md), renderer)))
}

// Preformatted wraps text in a <pre> block so column alignment survives.
func Preformatted(text string) string {
	return "<pre>" + html.EscapeString(strings.TrimRight(text, "\n")) + "</pre>"
}

// HTMLToText strips markup for clients that rejected the HTML form.
// On conversion failure the input is returned unchanged.
func HTMLToText(s string) string {
	text, err := html2text.FromString(s, html2text.Options{OmitLinks: false, TextOnly: true})
	if err != nil {
		return s
	}
	return text
}
