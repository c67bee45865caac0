package model

import (
	"xlchat/config"
	"xlchat/speech"
	"xlchat/storage"
)

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config        *config.Config
	Provider      Provider
	Credentials   *config.CredentialStore
	Conversations *storage.ConversationStore
	Recognizer    *speech.Recognizer

	// Runtime state (not UI)
	Streaming    bool
	StreamHandle StreamHandle
	Listening    bool
	Quitting     bool

	dictation *speech.Session

	// Application metadata
	Version string
}

// StreamHandle pins an in-flight stream to the exact message it feeds.
// Chunks are applied by conversation and message ID, never by position, so
// switching or creating conversations mid-stream cannot misroute them.
type StreamHandle struct {
	ConversationID string
	MessageID      string
}

// NewModel creates a new Model with the given dependencies
func NewModel(cfg *config.Config, provider Provider, credentials *config.CredentialStore, conversations *storage.ConversationStore, version string) *Model {
	var recognizer *speech.Recognizer
	if cfg.SpeechCommand != "" {
		recognizer = speech.New(cfg.SpeechCommand, cfg.SpeechArgs)
	}

	return &Model{
		Config:        cfg,
		Provider:      provider,
		Credentials:   credentials,
		Conversations: conversations,
		Recognizer:    recognizer,
		Version:       version,
	}
}

// ActiveConversation returns the selected conversation, or nil
func (m *Model) ActiveConversation() *storage.Conversation {
	return m.Conversations.Active()
}

// DictationAvailable reports whether voice input can be offered
func (m *Model) DictationAvailable() bool {
	return m.Recognizer != nil && m.Recognizer.Available()
}
