package assistant

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Generator is the synchronous text-in/text-out boundary to the external
// language model. The core only ever trusts completions that survive the
// strict envelope parsing in envelope.go.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator calls Gemini through the genai SDK. One client is created
// at startup and shared; calls are blocking with no retry.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator builds the shared client. apiKey empty means the
// service is not configured; callers should leave the Generator nil in that
// case so requests degrade to a ServiceError.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", &ServiceError{Reason: "generate content", Err: err}
	}

	rawText := resp.Text()
	if rawText == "" {
		return "", &ServiceError{Reason: "empty response from model"}
	}
	return rawText, nil
}
