package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// NewCredentialInput creates the masked API key input
func NewCredentialInput() textinput.Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "Paste your API key"
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '*'
	input.CharLimit = 256
	input.Width = 50
	return input
}

// renderCredentialModal renders the API key prompt. reason is shown when the
// modal opened because a previous key was rejected.
func renderCredentialModal(input textinput.Model, providerID, reason string, width, height int) string {
	modalWidth := 60
	if width < modalWidth+10 {
		modalWidth = width - 10
		if modalWidth < 10 {
			modalWidth = 10
		}
	}

	leftStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Left)

	var lines []string

	if reason != "" {
		wrapped := wordWrap(reason, modalWidth-4)
		reasonStyle := lipgloss.NewStyle().
			Width(modalWidth).
			Foreground(dangerColor).
			Align(lipgloss.Left)
		for _, line := range strings.Split(wrapped, "\n") {
			lines = append(lines, reasonStyle.Render("  "+line))
		}
		lines = append(lines, strings.Repeat(" ", modalWidth))
	}

	intro := wordWrap("Enter your "+providerID+" API key. It is stored encrypted in the data directory and only leaves this machine to talk to the provider.", modalWidth-4)
	for _, line := range strings.Split(intro, "\n") {
		lines = append(lines, leftStyle.Render("  "+line))
	}

	lines = append(lines, strings.Repeat(" ", modalWidth))
	lines = append(lines, leftStyle.Render("  "+input.View()))

	footer := FormatFooter("Enter", "Save", "Esc", "Cancel")

	modalType := ModalTypeInfo
	title := "API Key Required"
	if reason != "" {
		modalType = ModalTypeWarning
		title = "API Key Rejected"
	}

	return RenderThreeSectionModal(title, lines, footer, modalType, modalWidth, width, height)
}
