package llm

import (
	"context"
	"fmt"
	"log"

	"workoverbot/internal/config"
)

const (
	defaultAnthropicModel = "claude-sonnet-4-5-20250929"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultGeminiModel    = "gemini-1.5-pro"
)

type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

func (u Usage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens
}

func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// Client sends one system+user prompt pair and returns the raw reply text.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, Usage, error)
	Provider() string
	Model() string
}

// New builds the client for cfg.LLMProvider. It returns nil, nil when the
// provider has no credential so callers can run rule-only.
func New(ctx context.Context, cfg config.Config) (Client, error) {
	if !cfg.AIConfigured() {
		return nil, nil
	}
	model := cfg.LLMModel
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		if model == "" {
			model = defaultAnthropicModel
		}
		return NewAnthropic(cfg.AnthropicAPIKey, model), nil
	case config.ProviderOpenAI:
		if model == "" {
			model = defaultOpenAIModel
		}
		return NewOpenAI(cfg.OpenAIAPIKey, model), nil
	case config.ProviderGemini:
		if model == "" {
			model = defaultGeminiModel
		}
		return NewGemini(ctx, cfg.GeminiProjectID, cfg.GeminiRegion, model)
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
}

// Close releases provider resources when the client holds any.
func Close(c Client) {
	closer, ok := c.(interface{ Close() error })
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		log.Printf("llm close provider=%s error: %v", c.Provider(), err)
	}
}

// FormatTokenCount renders token totals as 950, 1.2k, 3.4M.
func FormatTokenCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	}
	return fmt.Sprintf("%d", n)
}
