package ui

import (
	"fmt"
	"regexp"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"xlchat/extract"
	"xlchat/storage"
)

var inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)

// blockHeaders label the typed fenced blocks in a reply
var blockHeaders = map[extract.Kind]string{
	extract.Formula: "Excel Formula",
	extract.Macro:   "VBA Macro",
	extract.Tabular: "CSV Data",
}

func (a *AppView) updateViewportContent(gotoBottom bool) {
	conv := a.dataModel.ActiveConversation()
	if conv == nil {
		a.viewport.SetContent(renderWelcome(a.width))
		return
	}

	var content strings.Builder

	for _, msg := range conv.Messages {
		timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

		if msg.Role == storage.RoleUser {
			role := UserStyle.Render("You")
			content.WriteString(formatUserMessage(timestamp, role, msg.Content))
			continue
		}

		role := AssistantStyle.Render("Assistant")
		rendered := a.renderReply(msg)
		content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, role, rendered))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

// renderReply renders an assistant message segment by segment: markdown for
// prose, highlighted blocks for ```excel, ```vba and ```csv fences.
func (a *AppView) renderReply(msg storage.Message) string {
	streamingHere := a.dataModel.Streaming &&
		a.dataModel.StreamHandle.MessageID == msg.ID

	var b strings.Builder

	for _, seg := range extract.Parse(msg.Content) {
		switch seg.Kind {
		case extract.Pending:
			if streamingHere {
				b.WriteString(a.loadingSpinner.View())
			} else {
				b.WriteString(DimStyle.Render("..."))
			}

		case extract.Text:
			b.WriteString(a.renderMarkdown(seg.Content))

		case extract.Formula:
			b.WriteString(renderBlock(blockHeaders[seg.Kind], highlightFormula(seg.Content), a.width))

		case extract.Macro:
			b.WriteString(renderBlock(blockHeaders[seg.Kind], highlightVBA(seg.Content), a.width))

		case extract.Tabular:
			b.WriteString(renderBlock(blockHeaders[seg.Kind], seg.Content, a.width))
		}
	}

	if streamingHere && msg.Content != "" {
		b.WriteString("▋")
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderMarkdown renders prose with go-term-markdown. Autolink is disabled so
// URLs stay plain text and the terminal emulator handles them.
func (a *AppView) renderMarkdown(content string) string {
	width := a.width - 4
	if width < 20 {
		width = 20
	}

	defaultExt := markdown.Extensions()
	customExt := defaultExt &^ parser.Autolink
	p := parser.NewWithExtensions(customExt)
	r := markdown.NewRenderer(width, 0)
	doc := p.Parse([]byte(content))
	rendered := gomarkdown.Render(doc, r)

	// Inline code comes out as blue background + italic; recolor to red text
	return fixInlineCode(string(rendered))
}

func fixInlineCode(s string) string {
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

// renderBlock frames a typed block with a labelled top rule and a bottom rule
func renderBlock(label, body string, width int) string {
	ruleWidth := width - 4
	if ruleWidth < 20 {
		ruleWidth = 20
	}

	darkGray := "\x1b[90m"
	reset := "\x1b[0m"

	labelText := "[" + label + "]"
	leftLen := (ruleWidth - len(labelText)) / 2
	if leftLen < 0 {
		leftLen = 0
	}
	rightLen := ruleWidth - len(labelText) - leftLen
	if rightLen < 0 {
		rightLen = 0
	}

	top := darkGray + strings.Repeat("━", leftLen) + reset + labelText + darkGray + strings.Repeat("━", rightLen) + reset
	bottom := darkGray + strings.Repeat("━", ruleWidth) + reset

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(top)
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(bottom)
	b.WriteString("\n\n")
	return b.String()
}

func formatUserMessage(timestamp, role, content string) string {
	greenBold := "\x1b[32;1m"
	reset := "\x1b[0m"
	bar := greenBold + "┃" + reset

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))

	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}

	result.WriteString("\n")
	return result.String()
}
