package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"xlchat/model"
)

// AnthropicProvider implements the Provider interface using Anthropic's
// official Go SDK.
type AnthropicProvider struct {
	client     *anthropic.Client
	model      anthropic.Model
	titleModel anthropic.Model
}

// NewAnthropicProvider creates a new Anthropic provider instance.
//
// Returns an error if the API key is missing.
func NewAnthropicProvider(baseURL, apiKey, chatModel, titleModel string) (*AnthropicProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	var m anthropic.Model
	if chatModel == "" {
		m = anthropic.ModelClaudeSonnet4_5_20250929
	} else {
		m = anthropic.Model(chatModel)
	}

	tm := m
	if titleModel != "" {
		tm = anthropic.Model(titleModel)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &AnthropicProvider{
		client:     &client,
		model:      m,
		titleModel: tm,
	}, nil
}

func convertToAnthropicMessages(messages []model.Message) []anthropic.MessageParam {
	result := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		block := anthropic.NewTextBlock(msg.Content)
		if msg.Role == model.RoleModel {
			result = append(result, anthropic.NewAssistantMessage(block))
		} else {
			result = append(result, anthropic.NewUserMessage(block))
		}
	}
	return result
}

// Chat implements Provider.Chat with streaming support.
func (p *AnthropicProvider) Chat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	params := anthropic.MessageNewParams{
		Model:     p.model,
		Messages:  convertToAnthropicMessages(messages),
		MaxTokens: 4096, // Required by Anthropic API
		System: []anthropic.TextBlockParam{
			{Text: SystemInstruction},
		},
	}

	stream := p.client.Messages.NewStreaming(ctx, params)

	for stream.Next() {
		event := stream.Current()

		switch eventVariant := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch deltaVariant := eventVariant.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if callback != nil {
					if err := callback(deltaVariant.Text); err != nil {
						return err
					}
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return fmt.Errorf("Anthropic streaming error: %w", classifyAnthropicError(err))
	}

	return nil
}

// GenerateTitle implements Provider.GenerateTitle.
func (p *AnthropicProvider) GenerateTitle(ctx context.Context, firstMessage string) (string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model: p.titleModel,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(TitlePrompt(firstMessage))),
		},
		MaxTokens: 64,
	})
	if err != nil {
		return "", fmt.Errorf("title generation failed: %w", classifyAnthropicError(err))
	}

	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			return CleanTitle(text.Text), nil
		}
	}
	return "", nil
}

// GetModel implements Provider.GetModel.
func (p *AnthropicProvider) GetModel() string {
	return string(p.model)
}

// SetModel implements Provider.SetModel.
func (p *AnthropicProvider) SetModel(m string) {
	p.model = anthropic.Model(m)
}

// Ping implements Provider.Ping with a minimal message request.
func (p *AnthropicProvider) Ping(ctx context.Context) error {
	_, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model: p.model,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
		MaxTokens: 1,
	})
	if err != nil {
		return fmt.Errorf("Anthropic ping failed: %w", classifyAnthropicError(err))
	}
	return nil
}

func classifyAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 401 || apiErr.StatusCode == 403 {
			return invalidCredential(err)
		}
		return err
	}

	if looksLikeAuthError(err.Error()) {
		return invalidCredential(err)
	}
	return err
}
