package caption

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ytget/tokbulk/internal/log"
)

// Config is the configuration of the default resolver chain.
type Config struct {
	// GeminiAPIKey enables the Gemini resolver when set.
	GeminiAPIKey   string
	GeminiModel    string
	OEmbedEndpoint string
	HTTPClient     *http.Client
	YouTubeTimeout time.Duration
	Logger         log.Logger
}

func (c *Config) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	if c.YouTubeTimeout < 0 {
		return fmt.Errorf("youtube timeout can't be negative")
	}
	return nil
}

// NewDefault returns the resolver chain used by the application: Gemini (only
// with an API key), YouTube playlists and then oEmbed.
func NewDefault(ctx context.Context, cfg Config) (*Chain, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var resolvers []Resolver
	if cfg.GeminiAPIKey != "" {
		g, err := NewGeminiResolver(ctx, GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		})
		if err != nil {
			return nil, err
		}
		resolvers = append(resolvers, g)
	} else {
		cfg.Logger.Debugf("Gemini API key not set, Gemini caption resolver disabled")
	}

	resolvers = append(resolvers, NewYouTubeResolver(cfg.YouTubeTimeout))

	o, err := NewOEmbedResolver(OEmbedConfig{
		Endpoint:   cfg.OEmbedEndpoint,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, err
	}
	resolvers = append(resolvers, o)

	return NewChain(cfg.Logger, resolvers...), nil
}
