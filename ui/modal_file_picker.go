package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/lipgloss"

	xlconfig "xlchat/config"
	"xlchat/tabular"
)

// FilePickerState wraps the bubbles file picker for attachment selection
type FilePickerState struct {
	Active bool
	Picker filepicker.Model
}

// NewAttachmentPicker creates a picker limited to the spreadsheet and CSV
// types the converter understands
func NewAttachmentPicker() FilePickerState {
	fp := filepicker.New()
	fp.AllowedTypes = tabular.SupportedExtensions
	fp.Height = 10
	fp.DirAllowed = true
	fp.FileAllowed = true
	fp.ShowPermissions = false
	fp.ShowSize = false
	fp.CurrentDirectory = xlconfig.GetHomeDir()

	fp.Styles.Directory = lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true)
	fp.Styles.File = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15"))
	fp.Styles.Selected = lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true)
	fp.Styles.Cursor = lipgloss.NewStyle().
		Foreground(successColor)

	return FilePickerState{Picker: fp}
}

func renderFilePickerModal(state FilePickerState, width, height int) string {
	if width < 20 || height < 10 {
		return "Terminal too small"
	}

	modalWidth := width - 10
	if modalWidth < 10 {
		modalWidth = 10
	}
	if modalWidth > 80 {
		modalWidth = 80
	}

	var messageLines []string

	contentStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Left)

	for _, line := range strings.Split(state.Picker.View(), "\n") {
		trimmedLine := strings.TrimRight(line, " ")
		messageLines = append(messageLines, contentStyle.Render("  "+trimmedLine))
	}

	footer := FormatFooter("j/k", "Navigate", "h/l", "Back/Forward", "Enter", "Attach", "Esc", "Cancel")

	return RenderThreeSectionModal(
		"Attach Spreadsheet",
		messageLines,
		footer,
		ModalTypeInfo,
		modalWidth,
		width,
		height,
	)
}
