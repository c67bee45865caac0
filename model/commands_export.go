package model

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"xlchat/storage"
)

// CopyToClipboard copies raw block content (a formula or macro) to the
// system clipboard
func CopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return CopyDoneMsg{Err: clipboard.WriteAll(text)}
	}
}

// ExportCSVBlock writes a csv block to the Downloads directory
func ExportCSVBlock(csvText string) tea.Cmd {
	return func() tea.Msg {
		path, err := storage.ExportCSV(csvText)
		return ExportDoneMsg{Path: path, Err: err}
	}
}
