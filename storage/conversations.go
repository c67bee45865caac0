package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message roles. The assistant side is "model", matching the Gemini API.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

const conversationsKey = "conversations"

// Message represents a single chat message
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation represents one chat thread
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMessage creates a message with a fresh ID and timestamp
func NewMessage(role, content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// ConversationStore keeps the conversation history in memory and mirrors
// every mutation to the key-value store. Memory is authoritative; a failed
// write is reported to the caller but never rolls back the mutation.
type ConversationStore struct {
	kv            *KVStore
	conversations []Conversation
	activeID      string
}

// NewConversationStore hydrates the history from the key-value store.
// A corrupt blob yields an empty history and a non-nil warning; the store
// is still usable.
func NewConversationStore(kv *KVStore) (*ConversationStore, error) {
	store := &ConversationStore{kv: kv}

	blob, ok, err := kv.Get(conversationsKey)
	if err != nil {
		return store, fmt.Errorf("failed to load conversations: %w", err)
	}
	if !ok {
		return store, nil
	}

	var conversations []Conversation
	if err := json.Unmarshal([]byte(blob), &conversations); err != nil {
		return store, fmt.Errorf("stored conversations are corrupt, starting fresh: %w", err)
	}

	store.conversations = conversations
	return store, nil
}

func (cs *ConversationStore) persist() error {
	data, err := json.Marshal(cs.conversations)
	if err != nil {
		return fmt.Errorf("failed to marshal conversations: %w", err)
	}

	if err := cs.kv.Set(conversationsKey, string(data)); err != nil {
		return fmt.Errorf("failed to save conversations: %w", err)
	}

	return nil
}

// List returns all conversations, newest first
func (cs *ConversationStore) List() []Conversation {
	return cs.conversations
}

// Active returns the active conversation, or nil when none is selected
func (cs *ConversationStore) Active() *Conversation {
	return cs.find(cs.activeID)
}

// ActiveID returns the active conversation ID ("" when none)
func (cs *ConversationStore) ActiveID() string {
	return cs.activeID
}

// SetActive selects a conversation by ID. An empty ID deselects.
func (cs *ConversationStore) SetActive(id string) {
	cs.activeID = id
}

func (cs *ConversationStore) find(id string) *Conversation {
	for i := range cs.conversations {
		if cs.conversations[i].ID == id {
			return &cs.conversations[i]
		}
	}
	return nil
}

// Get returns a conversation by ID, or nil
func (cs *ConversationStore) Get(id string) *Conversation {
	return cs.find(id)
}

// Create prepends a new conversation holding the first message and makes it
// active. Returns the new conversation's ID and any persistence warning.
func (cs *ConversationStore) Create(title string, first Message) (string, error) {
	now := time.Now()
	conv := Conversation{
		ID:        uuid.New().String(),
		Title:     title,
		Messages:  []Message{first},
		CreatedAt: now,
		UpdatedAt: now,
	}

	cs.conversations = append([]Conversation{conv}, cs.conversations...)
	cs.activeID = conv.ID

	return conv.ID, cs.persist()
}

// Append adds a message to a conversation
func (cs *ConversationStore) Append(convID string, msg Message) error {
	conv := cs.find(convID)
	if conv == nil {
		return fmt.Errorf("conversation %s not found", convID)
	}

	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = time.Now()

	return cs.persist()
}

// UpdateMessage applies fn to the message identified by convID/msgID.
// Missing conversation or message is a silent no-op (it may have been
// deleted while a stream was in flight).
func (cs *ConversationStore) UpdateMessage(convID, msgID string, fn func(*Message)) error {
	conv := cs.find(convID)
	if conv == nil {
		return nil
	}

	for i := range conv.Messages {
		if conv.Messages[i].ID == msgID {
			fn(&conv.Messages[i])
			conv.UpdatedAt = time.Now()
			return cs.persist()
		}
	}

	return nil
}

// AppendToMessage appends a chunk to the content of a specific message
func (cs *ConversationStore) AppendToMessage(convID, msgID, chunk string) error {
	return cs.UpdateMessage(convID, msgID, func(m *Message) {
		m.Content += chunk
	})
}

// RemoveMessage deletes a single message from a conversation
func (cs *ConversationStore) RemoveMessage(convID, msgID string) error {
	conv := cs.find(convID)
	if conv == nil {
		return nil
	}

	for i := range conv.Messages {
		if conv.Messages[i].ID == msgID {
			conv.Messages = append(conv.Messages[:i], conv.Messages[i+1:]...)
			conv.UpdatedAt = time.Now()
			return cs.persist()
		}
	}

	return nil
}

// SetTitle updates a conversation title. No-op if the conversation is gone.
func (cs *ConversationStore) SetTitle(convID, title string) error {
	conv := cs.find(convID)
	if conv == nil {
		return nil
	}

	conv.Title = title
	return cs.persist()
}

// Remove deletes a conversation. Removing the active conversation clears
// the active pointer.
func (cs *ConversationStore) Remove(id string) error {
	for i := range cs.conversations {
		if cs.conversations[i].ID == id {
			cs.conversations = append(cs.conversations[:i], cs.conversations[i+1:]...)
			if cs.activeID == id {
				cs.activeID = ""
			}
			return cs.persist()
		}
	}
	return nil
}

// ProvisionalTitle derives a placeholder title from the first user message:
// the first 40 characters, with an ellipsis when truncated.
func ProvisionalTitle(firstMessage string) string {
	title := strings.ReplaceAll(firstMessage, "\n", " ")
	title = strings.TrimSpace(title)

	if title == "" {
		return fmt.Sprintf("Chat %s", time.Now().Format("Jan 2, 3:04 PM"))
	}

	runes := []rune(title)
	if len(runes) > 40 {
		return string(runes[:40]) + "..."
	}
	return title
}

// ConversationMatch is a search hit in the history sidebar
type ConversationMatch struct {
	ConversationID string
	Title          string
	Preview        string
	Timestamp      time.Time
}

// SearchConversations finds conversations whose title or messages contain
// the query (case-insensitive substring)
func SearchConversations(conversations []Conversation, query string) []ConversationMatch {
	if query == "" {
		return []ConversationMatch{}
	}

	queryLower := strings.ToLower(query)
	var matches []ConversationMatch

	for _, conv := range conversations {
		if strings.Contains(strings.ToLower(conv.Title), queryLower) {
			matches = append(matches, ConversationMatch{
				ConversationID: conv.ID,
				Title:          conv.Title,
				Preview:        conv.Title,
				Timestamp:      conv.UpdatedAt,
			})
			continue
		}

		for _, msg := range conv.Messages {
			if strings.Contains(strings.ToLower(msg.Content), queryLower) {
				preview := msg.Content
				if len(preview) > 100 {
					preview = preview[:100] + "..."
				}
				matches = append(matches, ConversationMatch{
					ConversationID: conv.ID,
					Title:          conv.Title,
					Preview:        preview,
					Timestamp:      msg.Timestamp,
				})
				break
			}
		}
	}

	return matches
}
