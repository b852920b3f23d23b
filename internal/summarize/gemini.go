// Package summarize generates novel descriptions with the Gemini API. The
// call is a stateless text transform: full novel content in, a short
// three-line summary out. Output is not deterministic.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel balances quality and latency for short summaries.
const DefaultModel = "gemini-2.0-flash"

type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed summarizer.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Model returns the model name in use.
func (c *GeminiClient) Model() string {
	return c.model
}

// Summarize returns a concise descriptive summary of the novel content.
// Exemplars, when present, steer tone and style; the call works without them.
func (c *GeminiClient) Summarize(ctx context.Context, novelContent string, exemplars []string) (string, error) {
	prompt := buildPrompt(novelContent, exemplars)

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.6),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	summary := strings.TrimSpace(resp.Text())
	if summary == "" {
		return "", fmt.Errorf("gemini returned an empty summary")
	}
	return summary, nil
}

func buildPrompt(novelContent string, exemplars []string) string {
	var b strings.Builder
	b.WriteString("You are an expert in creating captivating three-line summaries for novels.\n")
	b.WriteString("Your goal is to provide a preview that entices potential readers while accurately reflecting the novel's essence.\n")
	b.WriteString("Answer in the language the novel is written in.\n\n")
	b.WriteString("Here is the novel content:\n")
	b.WriteString(novelContent)
	b.WriteString("\n")

	if len(exemplars) > 0 {
		b.WriteString("\nUse these existing summaries as inspiration for tone and style:\n")
		for _, e := range exemplars {
			b.WriteString("- ")
			b.WriteString(e)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nPlease generate a concise, three-line summary that captures the core themes and intrigues readers.\n")
	b.WriteString("Ensure that the summary is accurate and does not reveal major plot spoilers.\n")
	b.WriteString("Summary:")
	return b.String()
}
