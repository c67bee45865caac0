package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"xlchat/extract"
)

// tokenStyles maps classifier output to terminal colors
var tokenStyles = map[extract.TokenClass]lipgloss.Style{
	extract.TokenString:   lipgloss.NewStyle().Foreground(successColor),
	extract.TokenNumber:   lipgloss.NewStyle().Foreground(highlightColor),
	extract.TokenOperator: lipgloss.NewStyle().Foreground(dimColor),
	extract.TokenFunction: lipgloss.NewStyle().Foreground(accentColor).Bold(true),
	extract.TokenCellRef:  lipgloss.NewStyle().Foreground(warningColor),
	extract.TokenComment:  lipgloss.NewStyle().Foreground(dimColor).Italic(true),
	extract.TokenKeyword:  lipgloss.NewStyle().Foreground(accentColor).Bold(true),
	extract.TokenObject:   lipgloss.NewStyle().Foreground(highlightColor),
}

func renderTokens(tokens []extract.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		style, ok := tokenStyles[tok.Class]
		if !ok {
			b.WriteString(tok.Text)
			continue
		}
		b.WriteString(style.Render(tok.Text))
	}
	return b.String()
}

func highlightFormula(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = renderTokens(extract.TokenizeFormula(line))
	}
	return strings.Join(lines, "\n")
}

func highlightVBA(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = renderTokens(extract.TokenizeVBA(line))
	}
	return strings.Join(lines, "\n")
}
