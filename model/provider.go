package model

import "context"

// Provider abstracts the generative-language backends (Gemini, OpenAI,
// Anthropic) using provider-agnostic types.
//
// This interface is defined in the model package (not provider package) to
// avoid import cycles: provider implementations can import model, and model
// can use the Provider interface without importing the provider package.
type Provider interface {
	// Chat sends the conversation and streams the reply back via callback.
	Chat(ctx context.Context, messages []Message, callback StreamCallback) error

	// GenerateTitle produces a short conversation title from the first
	// user message. Non-streaming.
	GenerateTitle(ctx context.Context, firstMessage string) (string, error)

	// GetModel returns the currently selected model name.
	GetModel() string

	// SetModel changes the active model.
	SetModel(model string)

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}

// StreamCallback is called for each chunk of streamed response.
type StreamCallback func(chunk string) error
