package model

// Message is the provider-agnostic chat message sent to a backend
type Message struct {
	Role    string
	Content string
}

// Roles understood by providers. "model" is the assistant side, matching
// the Gemini API; other backends map it to their own role names.
const (
	RoleUser  = "user"
	RoleModel = "model"
)
