package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"xlchat/model"
)

// GeminiProvider implements the Provider interface using the official
// Google GenAI SDK. This is the default backend.
type GeminiProvider struct {
	client     *genai.Client
	model      string
	titleModel string
}

// NewGeminiProvider creates a new Gemini provider instance.
//
// Returns an error if the API key is missing or the client cannot be built.
func NewGeminiProvider(apiKey, chatModel, titleModel string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if chatModel == "" {
		chatModel = "gemini-flash-lite-latest"
	}
	if titleModel == "" {
		titleModel = chatModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client:     client,
		model:      chatModel,
		titleModel: titleModel,
	}, nil
}

// Chat implements Provider.Chat with streaming support.
func (p *GeminiProvider) Chat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		role := genai.Role(genai.RoleUser)
		if msg.Role == model.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
	}

	for resp, err := range p.client.Models.GenerateContentStream(ctx, p.model, contents, cfg) {
		if err != nil {
			return fmt.Errorf("Gemini streaming error: %w", classifyGeminiError(err))
		}

		if text := resp.Text(); text != "" && callback != nil {
			if err := callback(text); err != nil {
				return err
			}
		}
	}

	return nil
}

// GenerateTitle implements Provider.GenerateTitle. The reply is stripped of
// quotes and markdown emphasis; an empty result means the caller should keep
// its placeholder title.
func (p *GeminiProvider) GenerateTitle(ctx context.Context, firstMessage string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.titleModel,
		genai.Text(TitlePrompt(firstMessage)), nil)
	if err != nil {
		return "", fmt.Errorf("title generation failed: %w", classifyGeminiError(err))
	}

	return CleanTitle(resp.Text()), nil
}

// GetModel implements Provider.GetModel.
func (p *GeminiProvider) GetModel() string {
	return p.model
}

// SetModel implements Provider.SetModel.
func (p *GeminiProvider) SetModel(m string) {
	p.model = m
}

// Ping implements Provider.Ping by fetching the active model's metadata.
func (p *GeminiProvider) Ping(ctx context.Context) error {
	_, err := p.client.Models.Get(ctx, p.model, nil)
	if err != nil {
		return fmt.Errorf("Gemini ping failed: %w", classifyGeminiError(err))
	}
	return nil
}

// classifyGeminiError tags credential rejections. Gemini reports a bad key
// as 400 INVALID_ARGUMENT with "API key not valid" rather than 401.
func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401 || apiErr.Code == 403:
			return invalidCredential(err)
		case apiErr.Code == 400 && looksLikeAuthError(apiErr.Message):
			return invalidCredential(err)
		}
		return err
	}

	if looksLikeAuthError(err.Error()) {
		return invalidCredential(err)
	}
	return err
}

// CleanTitle normalizes a generated title: surrounding whitespace, quotes,
// and markdown asterisks are removed.
func CleanTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.Map(func(r rune) rune {
		switch r {
		case '\'', '"', '“', '”', '*':
			return -1
		}
		return r
	}, title)
	return strings.TrimSpace(title)
}
