package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"xlchat/model"
)

// OpenAIProvider implements the Provider interface using OpenAI's official
// Go SDK.
type OpenAIProvider struct {
	client     openai.Client
	model      string
	titleModel string
}

// NewOpenAIProvider creates a new OpenAI provider instance.
//
// Returns an error if the API key is missing.
func NewOpenAIProvider(baseURL, apiKey, chatModel, titleModel string) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if chatModel == "" {
		chatModel = "gpt-4o-mini"
	}
	if titleModel == "" {
		titleModel = chatModel
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		client:     client,
		model:      chatModel,
		titleModel: titleModel,
	}, nil
}

func convertToOpenAIMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	result = append(result, openai.SystemMessage(SystemInstruction))

	for _, msg := range messages {
		if msg.Role == model.RoleModel {
			result = append(result, openai.AssistantMessage(msg.Content))
		} else {
			result = append(result, openai.UserMessage(msg.Content))
		}
	}

	return result
}

// Chat implements Provider.Chat with streaming support.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	params := openai.ChatCompletionNewParams{
		Messages: convertToOpenAIMessages(messages),
		Model:    openai.ChatModel(p.model),
	}

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			if callback != nil {
				if err := callback(chunk.Choices[0].Delta.Content); err != nil {
					return err
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return fmt.Errorf("OpenAI streaming error: %w", classifyOpenAIError(err))
	}

	return nil
}

// GenerateTitle implements Provider.GenerateTitle.
func (p *OpenAIProvider) GenerateTitle(ctx context.Context, firstMessage string) (string, error) {
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(TitlePrompt(firstMessage)),
		},
		Model: openai.ChatModel(p.titleModel),
	})
	if err != nil {
		return "", fmt.Errorf("title generation failed: %w", classifyOpenAIError(err))
	}

	if len(completion.Choices) == 0 {
		return "", nil
	}
	return CleanTitle(completion.Choices[0].Message.Content), nil
}

// GetModel implements Provider.GetModel.
func (p *OpenAIProvider) GetModel() string {
	return p.model
}

// SetModel implements Provider.SetModel.
func (p *OpenAIProvider) SetModel(m string) {
	p.model = m
}

// Ping implements Provider.Ping by attempting to list models.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	_, err := p.client.Models.List(ctx)
	if err != nil {
		return fmt.Errorf("OpenAI ping failed: %w", classifyOpenAIError(err))
	}
	return nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.Error
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
