package ui

import (
	"github.com/charmbracelet/lipgloss"
)

type helpEntry struct {
	key  string
	desc string
}

var helpEntries = []helpEntry{
	{"Enter", "Send message"},
	{"Alt+Enter", "Insert newline"},
	{"Alt+N", "New conversation"},
	{"Alt+S", "Conversation list"},
	{"Alt+F", "Attach spreadsheet (.xlsx, .xlsm, .csv)"},
	{"Alt+V", "Start/stop dictation"},
	{"Alt+Y", "Copy last formula or macro"},
	{"Alt+D", "Export last CSV block to Downloads"},
	{"Alt+K", "Change API key"},
	{"Alt+H", "Toggle this help"},
	{"PgUp/PgDn", "Scroll conversation"},
	{"Alt+Q", "Quit"},
}

func renderHelpModal(width, height int) string {
	modalWidth := 56
	if width < modalWidth+10 {
		modalWidth = width - 10
	}

	keyStyle := lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true).
		Width(12)
	lineStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Left)

	var lines []string
	for _, entry := range helpEntries {
		lines = append(lines, lineStyle.Render("  "+keyStyle.Render(entry.key)+entry.desc))
	}

	footer := FormatFooter("Esc", "Close")

	return RenderThreeSectionModal("Keyboard Shortcuts", lines, footer, ModalTypeInfo, modalWidth, width, height)
}
