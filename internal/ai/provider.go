package ai

import (
	"context"
	"fmt"
	"strings"
)

// ProviderConfig selects and configures the generation backend.
type ProviderConfig struct {
	Provider      string // "gemini" or "openai"
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
}

// NewModel builds the configured backend. With no credentials it returns
// ErrNotConfigured and a nil model so callers can still start without AI.
func NewModel(ctx context.Context, cfg ProviderConfig) (TextModel, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "gemini":
		m, err := NewGeminiModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "openai":
		m, err := NewOpenAIModel(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
