// Package provider implements the LLM backends behind the chat.
//
// xlchat talks to a generative-language API through the model.Provider
// interface. Gemini is the primary backend; OpenAI and Anthropic are
// supported as alternates through the same factory. The interface lives in
// the model package (model/provider.go) to avoid import cycles; this package
// implements it.
//
// All providers share the fixed Excel-assistant system instruction
// (prompt.go) and classify authentication failures as ErrInvalidCredential
// so the UI can clear the stored key and re-prompt.
package provider

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeGemini    ProviderType = "gemini"
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeAnthropic ProviderType = "anthropic"
)

// Config holds provider-specific configuration.
type Config struct {
	Type       ProviderType
	BaseURL    string
	Model      string
	TitleModel string
	APIKey     string
}

// MapProviderIDToType converts a config provider ID to a factory ProviderType.
// Unknown IDs pass through as-is; the factory will reject them.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "gemini":
		return ProviderTypeGemini
	case "openai":
		return ProviderTypeOpenAI
	case "anthropic":
		return ProviderTypeAnthropic
	default:
		return ProviderType(id)
	}
}
