package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var examplePrompts = []string{
	"How do I sum column A when column B says \"Confirmed\"?",
	"Write a VBA macro that deletes empty rows",
	"Explain VLOOKUP vs INDEX/MATCH",
	"Turn this list of names into a CSV with one column per word",
}

// renderWelcome builds the viewport content shown before any conversation is
// selected
func renderWelcome(width int) string {
	if width <= 0 {
		width = 80
	}

	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(centered.Render(AssistantStyle.Bold(true).Render("xlchat")))
	b.WriteString("\n")
	b.WriteString(centered.Render(DimStyle.Render("Your Excel formula and VBA assistant")))
	b.WriteString("\n\n")
	b.WriteString(centered.Render("Type a question below and press Enter. Some ideas:"))
	b.WriteString("\n\n")

	for _, prompt := range examplePrompts {
		b.WriteString(centered.Render(HighlightStyle.Render("\"" + prompt + "\"")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centered.Render(DimStyle.Render("Alt+F attaches a spreadsheet, Alt+H shows all keys")))

	return b.String()
}
