package llm

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

// GeminiClient calls Gemini through Vertex AI. Credentials come from the
// ambient Google application default credentials.
type GeminiClient struct {
	base  *genai.Client
	model string
}

func NewGemini(ctx context.Context, projectID, region, model string) (*GeminiClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("gemini: projectID and region cannot be empty")
	}
	base, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	return &GeminiClient{base: base, model: model}, nil
}

func (c *GeminiClient) Provider() string { return "gemini" }
func (c *GeminiClient) Model() string    { return c.model }

func (c *GeminiClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, Usage, error) {
	model := c.base.GenerativeModel(c.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		log.Printf("llm gemini error: %v", err)
		return "", Usage{}, fmt.Errorf("Gemini API error: %w", err)
	}

	var usage Usage
	if resp != nil && resp.UsageMetadata != nil {
		usage.InputTokens = int64(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int64(resp.UsageMetadata.CandidatesTokenCount)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", usage, fmt.Errorf("no text content in Gemini response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	log.Printf("llm gemini response size=%d tokens_in=%d tokens_out=%d", sb.Len(), usage.InputTokens, usage.OutputTokens)
	return sb.String(), usage, nil
}

func (c *GeminiClient) Close() error {
	if c.base != nil {
		return c.base.Close()
	}
	return nil
}
