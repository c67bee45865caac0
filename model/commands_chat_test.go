package model_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"xlchat/config"
	"xlchat/model"
	"xlchat/provider"
	"xlchat/provider/testutil"
	"xlchat/storage"
)

func newTestModel(t *testing.T, withToken bool) (*model.Model, *testutil.MockProvider) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XLCHAT_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	kv, err := storage.NewKVStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open kv store: %v", err)
	}
	t.Cleanup(func() { kv.Close() })

	conversations, err := storage.NewConversationStore(kv)
	if err != nil {
		t.Fatalf("Failed to create conversation store: %v", err)
	}

	encryption, err := config.NewEncryptionManager()
	if err != nil {
		t.Fatalf("Failed to create encryption manager: %v", err)
	}
	credentials, err := config.NewCredentialStore(kv, encryption)
	if err != nil {
		t.Fatalf("Failed to create credential store: %v", err)
	}
	if withToken {
		if err := credentials.Save("test-key"); err != nil {
			t.Fatalf("Failed to save credential: %v", err)
		}
	}

	mock := testutil.NewMockProvider("test-model")
	cfg := &config.Config{
		ProviderID: "gemini",
		Model:      "test-model",
		TitleModel: "test-model",
	}

	return model.NewModel(cfg, mock, credentials, conversations, "test"), mock
}

// drain executes a command tree and returns every message it produces
func drain(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}

	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, sub := range batch {
			msgs = append(msgs, drain(t, sub)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

// pumpStream applies chunks until the stream finishes, returning the
// terminal message
func pumpStream(t *testing.T, m *model.Model, first model.StreamChunkMsg) tea.Msg {
	t.Helper()

	msg := tea.Msg(first)
	for {
		switch typed := msg.(type) {
		case model.StreamChunkMsg:
			if err := m.ApplyChunk(typed); err != nil {
				t.Fatalf("ApplyChunk failed: %v", err)
			}
			msg = model.WaitForStream(typed.Handle, typed.Events)()
		default:
			return msg
		}
	}
}

func findChunkMsg(t *testing.T, msgs []tea.Msg) model.StreamChunkMsg {
	t.Helper()
	for _, msg := range msgs {
		if chunk, ok := msg.(model.StreamChunkMsg); ok {
			return chunk
		}
	}
	t.Fatalf("No stream chunk among %#v", msgs)
	return model.StreamChunkMsg{}
}

func TestSendMessageWithoutCredential(t *testing.T) {
	m, mock := newTestModel(t, false)

	msgs := drain(t, m.SendMessage("hello", ""))

	if len(msgs) != 1 {
		t.Fatalf("Expected a single message, got %#v", msgs)
	}
	if _, ok := msgs[0].(model.CredentialRequiredMsg); !ok {
		t.Fatalf("Expected CredentialRequiredMsg, got %#v", msgs[0])
	}
	if len(m.Conversations.List()) != 0 {
		t.Error("Guard failure must not create a conversation")
	}
	if len(mock.ChatCalls) != 0 {
		t.Error("Guard failure must not call the provider")
	}
}

func TestSendMessageBlankIsNoOp(t *testing.T) {
	m, _ := newTestModel(t, true)

	if cmd := m.SendMessage("   \n ", ""); cmd != nil {
		t.Error("Blank input should be a no-op")
	}
	if len(m.Conversations.List()) != 0 {
		t.Error("Blank input must not create a conversation")
	}
}

func TestSendMessageStreamsReply(t *testing.T) {
	m, mock := newTestModel(t, true)

	mock.ChatFunc = func(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
		for _, chunk := range []string{"Hello", ", ", "world"} {
			if err := callback(chunk); err != nil {
				return err
			}
		}
		return nil
	}

	msgs := drain(t, m.SendMessage("hi there", ""))

	if !m.Streaming {
		t.Fatal("Send should enter streaming state")
	}

	conv := m.Conversations.Active()
	if conv == nil {
		t.Fatal("Send should create and activate a conversation")
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("Expected user message and placeholder, got %d", len(conv.Messages))
	}
	if conv.Messages[1].Role != storage.RoleModel || conv.Messages[1].Content != "" {
		t.Fatalf("Placeholder malformed: %#v", conv.Messages[1])
	}
	if m.StreamHandle.MessageID != conv.Messages[1].ID {
		t.Error("Handle should pin the placeholder message")
	}

	done := pumpStream(t, m, findChunkMsg(t, msgs))
	doneMsg, ok := done.(model.StreamDoneMsg)
	if !ok {
		t.Fatalf("Expected StreamDoneMsg, got %#v", done)
	}

	m.FinishStream(doneMsg.Handle)
	if m.Streaming {
		t.Error("FinishStream should clear streaming state")
	}

	if got := conv.Messages[1].Content; got != "Hello, world" {
		t.Errorf("Chunks out of order: %q", got)
	}

	// History sent to the provider excludes the placeholder
	if len(mock.ChatCalls) != 1 {
		t.Fatalf("Expected 1 chat call, got %d", len(mock.ChatCalls))
	}
	history := mock.ChatCalls[0]
	if len(history) != 1 || history[0].Role != model.RoleUser {
		t.Errorf("Unexpected history: %#v", history)
	}
}

func TestSendMessageGeneratesTitleForNewConversation(t *testing.T) {
	m, mock := newTestModel(t, true)

	mock.GenerateTitleFunc = func(ctx context.Context, firstMessage string) (string, error) {
		return "Summing Columns", nil
	}

	msgs := drain(t, m.SendMessage("how do I sum?", ""))

	var title model.TitleGeneratedMsg
	found := false
	for _, msg := range msgs {
		if typed, ok := msg.(model.TitleGeneratedMsg); ok {
			title = typed
			found = true
		}
	}
	if !found {
		t.Fatal("Expected a title message for a new conversation")
	}

	if err := m.ApplyTitle(title); err != nil {
		t.Fatalf("ApplyTitle failed: %v", err)
	}
	if got := m.Conversations.Active().Title; got != "Summing Columns" {
		t.Errorf("Title not applied: %q", got)
	}

	// A second send into the same conversation must not re-title it
	m.FinishStream(m.StreamHandle)
	mock.TitleCalls = nil
	drain(t, m.SendMessage("follow-up", ""))
	if len(mock.TitleCalls) != 0 {
		t.Error("Existing conversation should not be re-titled")
	}
}

func TestTitleFailureKeepsProvisional(t *testing.T) {
	m, _ := newTestModel(t, true)

	id, _ := m.Conversations.Create(storage.ProvisionalTitle("first question"), storage.NewMessage(storage.RoleUser, "first question"))

	err := m.ApplyTitle(model.TitleGeneratedMsg{ConversationID: id, Err: errors.New("boom")})
	if err != nil {
		t.Fatalf("ApplyTitle failed: %v", err)
	}
	if got := m.Conversations.Get(id).Title; got != "first question" {
		t.Errorf("Provisional title should survive a failed generation: %q", got)
	}

	err = m.ApplyTitle(model.TitleGeneratedMsg{ConversationID: id, Title: ""})
	if err != nil {
		t.Fatalf("ApplyTitle failed: %v", err)
	}
	if got := m.Conversations.Get(id).Title; got != "first question" {
		t.Errorf("Empty title should be ignored: %q", got)
	}

	// A deleted conversation is a silent no-op
	m.Conversations.Remove(id)
	if err := m.ApplyTitle(model.TitleGeneratedMsg{ConversationID: id, Title: "Late"}); err != nil {
		t.Errorf("Title for deleted conversation should be a no-op, got %v", err)
	}
}

func TestStreamAuthFailureRollsBack(t *testing.T) {
	m, mock := newTestModel(t, true)

	mock.ChatFunc = func(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
		return fmt.Errorf("%w: key rejected", provider.ErrInvalidCredential)
	}

	msgs := drain(t, m.SendMessage("hello", ""))

	var streamErr model.StreamErrorMsg
	found := false
	for _, msg := range msgs {
		if typed, ok := msg.(model.StreamErrorMsg); ok {
			streamErr = typed
			found = true
		}
	}
	if !found {
		t.Fatalf("Expected StreamErrorMsg, got %#v", msgs)
	}
	if !errors.Is(streamErr.Err, provider.ErrInvalidCredential) {
		t.Fatalf("Auth failure should match ErrInvalidCredential: %v", streamErr.Err)
	}

	m.FinishStream(streamErr.Handle)
	if err := m.RollbackAfterAuthFailure(streamErr.Handle, streamErr.Err.Error()); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	conv := m.Conversations.Active()
	if len(conv.Messages) != 1 {
		t.Fatalf("Placeholder should be removed, got %d messages", len(conv.Messages))
	}
	if conv.Messages[0].Role != storage.RoleUser {
		t.Error("The user message must survive the rollback")
	}
	if m.Credentials.HasToken() {
		t.Error("The rejected credential should be cleared")
	}
	if m.Credentials.LastError() == "" {
		t.Error("The rejection reason should be recorded")
	}
}

func TestStreamErrorAnnotation(t *testing.T) {
	m, mock := newTestModel(t, true)

	mock.ChatFunc = func(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
		if err := callback("partial"); err != nil {
			return err
		}
		return errors.New("connection reset")
	}

	msgs := drain(t, m.SendMessage("hello", ""))

	terminal := pumpStream(t, m, findChunkMsg(t, msgs))
	errMsg, ok := terminal.(model.StreamErrorMsg)
	if !ok {
		t.Fatalf("Expected StreamErrorMsg, got %#v", terminal)
	}

	if err := m.AnnotateStreamError(errMsg.Handle, errMsg.Err); err != nil {
		t.Fatalf("Annotation failed: %v", err)
	}

	conv := m.Conversations.Active()
	content := conv.Messages[1].Content
	if !strings.HasPrefix(content, "partial") {
		t.Errorf("Partial content should be kept: %q", content)
	}
	if !strings.Contains(content, "**Error:** connection reset") {
		t.Errorf("Error annotation missing: %q", content)
	}
}

func TestSendMessageWhileStreamingIsIgnored(t *testing.T) {
	m, mock := newTestModel(t, true)

	drain(t, m.SendMessage("first question", ""))
	if !m.Streaming {
		t.Fatal("Send should enter streaming state")
	}
	handle := m.StreamHandle

	if cmd := m.SendMessage("second question", ""); cmd != nil {
		t.Error("A send during an active stream should be a no-op")
	}

	conv := m.Conversations.Active()
	if len(conv.Messages) != 2 {
		t.Fatalf("Second send must not append messages, got %d", len(conv.Messages))
	}
	if len(mock.ChatCalls) != 1 {
		t.Errorf("Second send must not start a stream, got %d chat calls", len(mock.ChatCalls))
	}
	if m.StreamHandle != handle {
		t.Error("The live stream handle must not be overwritten")
	}

	m.FinishStream(handle)
	if cmd := m.SendMessage("second question", ""); cmd == nil {
		t.Error("Sending should work again once the stream finished")
	}
}

func TestSendMessageWithAttachment(t *testing.T) {
	m, mock := newTestModel(t, true)

	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte("region,total\nnorth,10\n"), 0600); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	drain(t, m.SendMessage("summarize this", path))

	conv := m.Conversations.Active()
	if conv == nil {
		t.Fatal("Send with attachment should create a conversation")
	}
	content := conv.Messages[0].Content
	if !strings.Contains(content, "sales.csv") {
		t.Errorf("Attachment name missing: %q", content)
	}
	if !strings.Contains(content, "region,total") {
		t.Errorf("Attachment data missing: %q", content)
	}
	if !strings.Contains(content, "summarize this") {
		t.Errorf("User prompt missing: %q", content)
	}
	if len(mock.ChatCalls) != 1 {
		t.Errorf("Expected 1 chat call, got %d", len(mock.ChatCalls))
	}

	// Titles see the raw user text, never the embedded CSV
	if conv.Title != "summarize this" {
		t.Errorf("Provisional title should come from the user text: %q", conv.Title)
	}
	if len(mock.TitleCalls) != 1 || mock.TitleCalls[0] != "summarize this" {
		t.Errorf("Title prompt should carry the user text only: %#v", mock.TitleCalls)
	}
}

func TestSendMessageAttachmentOnlyUsesDefaultPrompt(t *testing.T) {
	m, mock := newTestModel(t, true)

	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0600); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	drain(t, m.SendMessage("", path))

	conv := m.Conversations.Active()
	if conv == nil {
		t.Fatal("Attachment without text should still send")
	}
	if !strings.Contains(conv.Messages[0].Content, "summary of this file") {
		t.Errorf("Default attachment prompt missing: %q", conv.Messages[0].Content)
	}

	// With no text, the file name seeds the titles
	if conv.Title != "data.csv" {
		t.Errorf("Provisional title should fall back to the file name: %q", conv.Title)
	}
	if len(mock.TitleCalls) != 1 || mock.TitleCalls[0] != "data.csv" {
		t.Errorf("Title prompt should fall back to the file name: %#v", mock.TitleCalls)
	}
}

func TestSendMessageBadAttachmentFailsBeforeMutation(t *testing.T) {
	m, mock := newTestModel(t, true)

	msgs := drain(t, m.SendMessage("look at this", filepath.Join(t.TempDir(), "missing.xlsx")))

	if len(msgs) != 1 {
		t.Fatalf("Expected a single message, got %#v", msgs)
	}
	if _, ok := msgs[0].(model.FileErrorMsg); !ok {
		t.Fatalf("Expected FileErrorMsg, got %#v", msgs[0])
	}
	if len(m.Conversations.List()) != 0 {
		t.Error("Failed conversion must not create a conversation")
	}
	if len(mock.ChatCalls) != 0 {
		t.Error("Failed conversion must not call the provider")
	}
	if m.Streaming {
		t.Error("Failed conversion must not enter streaming state")
	}
}

func TestFinishStreamIgnoresStaleHandle(t *testing.T) {
	m, _ := newTestModel(t, true)

	drain(t, m.SendMessage("hello", ""))
	current := m.StreamHandle

	m.FinishStream(model.StreamHandle{ConversationID: "other", MessageID: "other"})
	if !m.Streaming || m.StreamHandle != current {
		t.Error("A stale handle must not clear the live stream")
	}

	m.FinishStream(current)
	if m.Streaming {
		t.Error("The live handle should clear the stream")
	}
}

func TestBuildHistoryDropsEmptyModelMessages(t *testing.T) {
	messages := []storage.Message{
		storage.NewMessage(storage.RoleUser, "first"),
		storage.NewMessage(storage.RoleModel, ""),
		storage.NewMessage(storage.RoleUser, "second"),
		storage.NewMessage(storage.RoleModel, "an answer"),
	}

	history := model.BuildHistory(messages)
	if len(history) != 3 {
		t.Fatalf("Expected 3 entries, got %#v", history)
	}
	if history[0].Content != "first" || history[1].Content != "second" || history[2].Content != "an answer" {
		t.Errorf("Unexpected history: %#v", history)
	}
}

func TestBuildHistoryDropsWhitespaceOnlyReplies(t *testing.T) {
	messages := []storage.Message{
		storage.NewMessage(storage.RoleUser, "question"),
		storage.NewMessage(storage.RoleModel, "  \n\t "),
	}

	history := model.BuildHistory(messages)
	if len(history) != 1 {
		t.Fatalf("Expected whitespace reply dropped, got %#v", history)
	}
}
