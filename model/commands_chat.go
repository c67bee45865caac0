package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"xlchat/config"
	"xlchat/storage"
	"xlchat/tabular"
)

// defaultAttachmentPrompt is used when a file is attached with no message text
const defaultAttachmentPrompt = "Please give me a summary of this file's contents."

const chatTimeout = 120 * time.Second

// buildAttachmentContent embeds a converted file in the outgoing message
func buildAttachmentContent(name, csvText, prompt string) string {
	if prompt == "" {
		prompt = defaultAttachmentPrompt
	}
	return fmt.Sprintf("The contents of the file '%s' (as CSV) are:\n\n---\n%s\n---\n\n%s", name, csvText, prompt)
}

// BuildHistory converts stored messages into provider messages. Empty model
// messages are dropped; providers reject empty text parts, and an empty
// reply carries no context anyway.
func BuildHistory(messages []storage.Message) []Message {
	var history []Message
	for _, msg := range messages {
		if msg.Role == storage.RoleModel && strings.TrimSpace(msg.Content) == "" {
			continue
		}
		history = append(history, Message{Role: msg.Role, Content: msg.Content})
	}
	return history
}

// SendMessage runs the send transaction: guards, attachment conversion,
// conversation/message creation, and stream start. It mutates the store
// synchronously (we are inside the update loop) and returns the commands
// that drive the async parts.
//
// Guard failures return before any state changes so the compose buffer can
// be kept. Once the message is committed, all outcomes flow through the
// stream messages.
func (m *Model) SendMessage(text, attachmentPath string) tea.Cmd {
	// Single-flight: one stream at a time. A send while a reply is still
	// streaming is ignored, keeping the compose buffer intact.
	if m.Streaming {
		return nil
	}

	if !m.Credentials.HasToken() || m.Provider == nil {
		return func() tea.Msg {
			return CredentialRequiredMsg{Reason: m.Credentials.LastError()}
		}
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" && attachmentPath == "" {
		return nil
	}

	// Titles are seeded from the raw user text; the embedded CSV never
	// reaches the title paths
	content := trimmed
	titleText := trimmed
	if attachmentPath != "" {
		name, csvText, err := tabular.Convert(attachmentPath)
		if err != nil {
			return func() tea.Msg {
				return FileErrorMsg{Err: err}
			}
		}
		content = buildAttachmentContent(name, csvText, trimmed)
		if titleText == "" {
			titleText = name
		}
	}

	var cmds []tea.Cmd
	var persistErr error

	userMsg := storage.NewMessage(storage.RoleUser, content)

	conv := m.Conversations.Active()
	isNew := conv == nil
	var convID string

	if isNew {
		convID, persistErr = m.Conversations.Create(storage.ProvisionalTitle(titleText), userMsg)
	} else {
		convID = conv.ID
		persistErr = m.Conversations.Append(convID, userMsg)
	}

	placeholder := storage.NewMessage(storage.RoleModel, "")
	if err := m.Conversations.Append(convID, placeholder); err != nil {
		persistErr = err
	}

	handle := StreamHandle{ConversationID: convID, MessageID: placeholder.ID}
	m.Streaming = true
	m.StreamHandle = handle

	// History excludes the placeholder we just appended
	conversation := m.Conversations.Get(convID)
	history := BuildHistory(conversation.Messages[:len(conversation.Messages)-1])

	cmds = append(cmds, m.startStream(history, handle))

	if isNew {
		cmds = append(cmds, m.generateTitle(convID, titleText))
	}

	if persistErr != nil {
		warn := persistErr
		cmds = append(cmds, func() tea.Msg {
			return StorageWarningMsg{Err: warn}
		})
	}

	return tea.Batch(cmds...)
}

// startStream launches the provider call in a goroutine that pumps chunks
// into a channel, and returns the command that waits for the first event.
// Delivery order matches arrival order; each stream owns its channel and
// handle, so concurrent streams cannot interleave into one message.
func (m *Model) startStream(history []Message, handle StreamHandle) tea.Cmd {
	events := make(chan StreamEvent, 64)
	client := m.Provider

	go func() {
		defer close(events)

		ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
		defer cancel()

		start := time.Now()
		err := client.Chat(ctx, history, func(chunk string) error {
			events <- StreamEvent{Chunk: chunk}
			return nil
		})

		if config.DebugLog != nil {
			config.DebugLog.Printf("chat stream finished after %v (err=%v)", time.Since(start), err)
		}

		if err != nil {
			events <- StreamEvent{Err: err}
		}
	}()

	return WaitForStream(handle, events)
}

// WaitForStream returns a command that delivers the next stream event. The
// update loop re-arms it after every chunk.
func WaitForStream(handle StreamHandle, events <-chan StreamEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return StreamDoneMsg{Handle: handle}
		}
		if ev.Err != nil {
			return StreamErrorMsg{Handle: handle, Err: ev.Err}
		}
		return StreamChunkMsg{Handle: handle, Chunk: ev.Chunk, Events: events}
	}
}

// ApplyChunk appends a streamed chunk to its target message
func (m *Model) ApplyChunk(msg StreamChunkMsg) error {
	return m.Conversations.AppendToMessage(msg.Handle.ConversationID, msg.Handle.MessageID, msg.Chunk)
}

// FinishStream clears streaming state if the handle matches the current
// stream
func (m *Model) FinishStream(handle StreamHandle) {
	if m.StreamHandle == handle {
		m.Streaming = false
		m.StreamHandle = StreamHandle{}
	}
}

// AnnotateStreamError appends the failure to the placeholder reply so the
// conversation shows what happened
func (m *Model) AnnotateStreamError(handle StreamHandle, err error) error {
	annotation := fmt.Sprintf("\n\n**Error:** %v", err)
	return m.Conversations.AppendToMessage(handle.ConversationID, handle.MessageID, annotation)
}

// RollbackAfterAuthFailure undoes the visible effects of a send that died on
// a rejected credential: the placeholder reply is removed (the user message
// stays, so it can be resent after re-entering a key) and the credential is
// cleared for re-prompt.
func (m *Model) RollbackAfterAuthFailure(handle StreamHandle, reason string) error {
	if err := m.Conversations.RemoveMessage(handle.ConversationID, handle.MessageID); err != nil {
		return err
	}
	return m.Credentials.Invalidate(reason)
}
