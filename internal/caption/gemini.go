package caption

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the model used to look captions up.
const DefaultGeminiModel = "gemini-2.5-flash"

const geminiPromptFormat = "Go to this TikTok URL: %s. Extract the exact video caption/title. " +
	"Return ONLY the caption text. Do not include any other text."

// GeminiConfig is the configuration of the Gemini resolver.
type GeminiConfig struct {
	APIKey string
	Model  string
}

func (c *GeminiConfig) defaults() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key is required")
	}
	if c.Model == "" {
		c.Model = DefaultGeminiModel
	}
	return nil
}

type generateFunc func(ctx context.Context, prompt string) (string, error)

// GeminiResolver asks a Gemini model, grounded with Google Search, for the caption.
type GeminiResolver struct {
	generate generateFunc
}

// NewGeminiResolver returns a new Gemini backed resolver.
func NewGeminiResolver(ctx context.Context, cfg GeminiConfig) (*GeminiResolver, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create gemini client: %w", err)
	}

	model := cfg.Model
	return &GeminiResolver{
		generate: func(ctx context.Context, prompt string) (string, error) {
			resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
				Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
			})
			if err != nil {
				return "", err
			}
			return resp.Text(), nil
		},
	}, nil
}

// Resolve satisfies Resolver.
func (g *GeminiResolver) Resolve(ctx context.Context, url string) (string, error) {
	text, err := g.generate(ctx, fmt.Sprintf(geminiPromptFormat, url))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	return Clean(text)
}
