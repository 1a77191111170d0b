package extract

import (
	"context"
	"log"
	"sync"
	"time"

	"workoverbot/internal/domain"
	"workoverbot/internal/integrations/llm"
)

const SourceAI = "ai"

// Completer is the part of an LLM client the AI extractor needs.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, llm.Usage, error)
	Provider() string
}

// UsageMeter sums token usage across rows extracted concurrently in one run.
type UsageMeter struct {
	mu    sync.Mutex
	total llm.Usage
}

func (m *UsageMeter) Add(u llm.Usage) {
	m.mu.Lock()
	m.total.Add(u)
	m.mu.Unlock()
}

func (m *UsageMeter) Total() llm.Usage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

type usageMeterKey struct{}

// WithUsageMeter returns a context whose AI extractions report usage to m.
func WithUsageMeter(ctx context.Context, m *UsageMeter) context.Context {
	return context.WithValue(ctx, usageMeterKey{}, m)
}

func usageMeterFrom(ctx context.Context) *UsageMeter {
	m, _ := ctx.Value(usageMeterKey{}).(*UsageMeter)
	return m
}

// AIExtractor delegates field extraction to a language model. It never
// retries; fallback policy belongs to the caller.
type AIExtractor struct {
	client Completer
}

func NewAIExtractor(client Completer) *AIExtractor {
	return &AIExtractor{client: client}
}

func (a *AIExtractor) Extract(ctx context.Context, row string) (domain.FieldSet, error) {
	systemPrompt, userPrompt := BuildPrompts(row)

	start := time.Now()
	text, usage, err := a.client.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return domain.FieldSet{}, &AIRequestError{Provider: a.client.Provider(), Err: err}
	}
	log.Printf("extract ai provider=%s tokens=%d elapsed_ms=%d", a.client.Provider(), usage.TotalTokens(), time.Since(start).Milliseconds())
	// Tokens are spent even when the reply later fails validation.
	if m := usageMeterFrom(ctx); m != nil {
		m.Add(usage)
	}

	return ParseResponse(text)
}
