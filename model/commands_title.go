package model

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"xlchat/config"
)

const titleTimeout = 30 * time.Second

// generateTitle summarizes a new conversation's first message into a short
// title, in the background. Failures are silent: the provisional title
// stays, and nothing retries.
func (m *Model) generateTitle(convID, firstMessage string) tea.Cmd {
	client := m.Provider

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), titleTimeout)
		defer cancel()

		title, err := client.GenerateTitle(ctx, firstMessage)
		if err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("title generation failed: %v", err)
		}

		return TitleGeneratedMsg{ConversationID: convID, Title: title, Err: err}
	}
}

// ApplyTitle stores a generated title. Empty titles and failed generations
// keep the provisional title; a deleted conversation makes this a no-op.
func (m *Model) ApplyTitle(msg TitleGeneratedMsg) error {
	if msg.Err != nil || msg.Title == "" {
		return nil
	}
	return m.Conversations.SetTitle(msg.ConversationID, msg.Title)
}
