// Package gemini implements the two external model calls the application
// consumes: receipt-image extraction and monthly saving suggestions. Both
// return structured JSON or fail; nothing partial is ever accepted.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the model both calls use unless configured otherwise.
const DefaultModel = "gemini-2.5-flash"

// Client wraps the GenAI SDK for this application's two calls.
type Client struct {
	genai *genai.Client
	model string
}

// New creates a client. An empty model selects DefaultModel; the API key
// comes from config rather than ambient environment so tests and workers
// can inject their own.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{genai: cli, model: model}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// generate runs one content-generation round trip and returns the raw text.
func (c *Client) generate(ctx context.Context, contents []*genai.Content) (string, error) {
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

// cleanModelJSON strips the Markdown fences and surrounding prose the model
// sometimes emits despite being told not to, keeping only the outermost
// JSON object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
