package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"xlchat/storage"
)

// conversationTitles adapts the conversation list for fuzzy matching
type conversationTitles []storage.Conversation

func (c conversationTitles) String(i int) string { return c[i].Title }
func (c conversationTitles) Len() int            { return len(c) }

// getConversationList returns the (possibly filtered) list shown in the
// manager, newest first
func (a AppView) getConversationList() []storage.Conversation {
	all := a.dataModel.Conversations.List()

	query := strings.TrimSpace(a.convFilterInput.Value())
	if !a.convFilterMode || query == "" {
		return all
	}

	matches := fuzzy.FindFrom(query, conversationTitles(all))
	filtered := make([]storage.Conversation, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, all[match.Index])
	}
	return filtered
}

// NewConversationFilterInput creates the filter input for the manager
func NewConversationFilterInput() textinput.Model {
	input := textinput.New()
	input.Prompt = "Filter: "
	input.CharLimit = 64
	return input
}

func renderConversationManager(conversations []storage.Conversation, selectedIdx int, activeID string, filterMode bool, filterInput textinput.Model, width, height int) string {
	modalWidth := 70
	if width < modalWidth+10 {
		modalWidth = width - 10
		if modalWidth < 20 {
			modalWidth = 20
		}
	}

	lineStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Left)

	var lines []string

	if filterMode {
		lines = append(lines, lineStyle.Render("  "+filterInput.View()))
		lines = append(lines, strings.Repeat(" ", modalWidth))
	}

	if len(conversations) == 0 {
		empty := "No conversations yet. Press n to start one."
		if filterMode {
			empty = "No conversations match the filter."
		}
		lines = append(lines, lineStyle.Render("  "+DimStyle.Render(empty)))
	}

	// Visible window around the selection for long histories
	maxVisible := height - 14
	if maxVisible < 3 {
		maxVisible = 3
	}
	start := 0
	if selectedIdx >= maxVisible {
		start = selectedIdx - maxVisible + 1
	}
	end := start + maxVisible
	if end > len(conversations) {
		end = len(conversations)
	}

	for i := start; i < end; i++ {
		conv := conversations[i]

		title := conv.Title
		if title == "" {
			title = "(untitled)"
		}

		marker := "  "
		titleText := title
		if i == selectedIdx {
			marker = SelectedStyle.Render("> ")
			titleText = SelectedStyle.Render(title)
		} else if conv.ID == activeID {
			titleText = UserStyle.Render(title)
		}

		meta := DimStyle.Render(fmt.Sprintf("  %s, %d messages", conv.UpdatedAt.Format("Jan 2 15:04"), len(conv.Messages)))
		lines = append(lines, lineStyle.Render("  "+marker+titleText+meta))
	}

	footer := FormatFooter("j/k", "Navigate", "Enter", "Open", "n", "New", "d", "Delete", "/", "Filter", "Esc", "Close")
	if filterMode {
		footer = FormatFooter("Enter", "Open", "Esc", "Clear Filter")
	}

	return RenderThreeSectionModal("Conversations", lines, footer, ModalTypeInfo, modalWidth, width, height)
}

func renderDeleteConfirmModal(title string, width, height int) string {
	modalWidth := 60
	if width < modalWidth+10 {
		modalWidth = width - 10
	}

	lineStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Left)

	var lines []string
	wrapped := wordWrap("Delete \""+title+"\"? This cannot be undone.", modalWidth-4)
	for _, line := range strings.Split(wrapped, "\n") {
		lines = append(lines, lineStyle.Render("  "+line))
	}

	footer := FormatFooter("y", "Delete", "n", "Cancel")

	return RenderThreeSectionModal("Delete Conversation", lines, footer, ModalTypeWarning, modalWidth, width, height)
}
