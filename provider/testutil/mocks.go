package testutil

import (
	"context"

	"xlchat/model"
)

// MockProvider implements model.Provider for testing
type MockProvider struct {
	// Configurable responses
	ChatFunc          func(ctx context.Context, messages []model.Message, callback model.StreamCallback) error
	GenerateTitleFunc func(ctx context.Context, firstMessage string) (string, error)
	PingFunc          func(ctx context.Context) error

	// Recorded calls
	ChatCalls  [][]model.Message
	TitleCalls []string

	// State
	currentModel string
}

// NewMockProvider creates a mock provider with default implementations
func NewMockProvider(modelName string) *MockProvider {
	mock := &MockProvider{
		currentModel: modelName,
	}
	mock.ChatFunc = mock.defaultChat
	mock.GenerateTitleFunc = mock.defaultGenerateTitle
	mock.PingFunc = mock.defaultPing
	return mock
}

func (m *MockProvider) defaultChat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	if len(messages) > 0 && callback != nil {
		return callback("Mock response")
	}
	return nil
}

func (m *MockProvider) defaultGenerateTitle(ctx context.Context, firstMessage string) (string, error) {
	return "Mock Title", nil
}

func (m *MockProvider) defaultPing(ctx context.Context) error {
	return nil
}

func (m *MockProvider) Chat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	m.ChatCalls = append(m.ChatCalls, messages)
	return m.ChatFunc(ctx, messages, callback)
}

func (m *MockProvider) GenerateTitle(ctx context.Context, firstMessage string) (string, error) {
	m.TitleCalls = append(m.TitleCalls, firstMessage)
	return m.GenerateTitleFunc(ctx, firstMessage)
}

func (m *MockProvider) GetModel() string {
	return m.currentModel
}

func (m *MockProvider) SetModel(model string) {
	m.currentModel = model
}

func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}
