package provider

import (
	"fmt"

	"xlchat/model"
)

// NewProvider creates a provider based on configuration.
//
// This is the centralized factory function for creating any provider type.
// It dispatches to the appropriate constructor based on Config.Type.
func NewProvider(cfg Config) (model.Provider, error) {
	switch cfg.Type {
	case ProviderTypeGemini:
		return NewGeminiProvider(cfg.APIKey, cfg.Model, cfg.TitleModel)
	case ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.TitleModel)
	case ProviderTypeAnthropic:
		return NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.TitleModel)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}
