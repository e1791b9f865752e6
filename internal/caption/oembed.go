package caption

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// oEmbed defaults
const (
	DefaultOEmbedEndpoint = "https://www.tiktok.com/oembed"
	DefaultOEmbedTimeout  = 10 * time.Second
	oEmbedMaxBody         = 1 << 20
)

// OEmbedConfig is the configuration of the oEmbed resolver.
type OEmbedConfig struct {
	Endpoint   string
	HTTPClient *http.Client
	// Hosts are the URL hosts handled by the resolver.
	Hosts []string
}

func (c *OEmbedConfig) defaults() error {
	if c.Endpoint == "" {
		c.Endpoint = DefaultOEmbedEndpoint
	}
	if _, err := url.Parse(c.Endpoint); err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultOEmbedTimeout}
	}
	if len(c.Hosts) == 0 {
		c.Hosts = []string{"tiktok.com"}
	}
	return nil
}

// OEmbedResolver reads the title published by an oEmbed provider.
type OEmbedResolver struct {
	endpoint string
	client   *http.Client
	hosts    []string
}

// NewOEmbedResolver returns a new oEmbed resolver.
func NewOEmbedResolver(cfg OEmbedConfig) (*OEmbedResolver, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &OEmbedResolver{
		endpoint: cfg.Endpoint,
		client:   cfg.HTTPClient,
		hosts:    cfg.Hosts,
	}, nil
}

type oEmbedResponse struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// Resolve satisfies Resolver.
func (o *OEmbedResolver) Resolve(ctx context.Context, videoURL string) (string, error) {
	if !o.handles(videoURL) {
		return "", fmt.Errorf("oembed %q: %w", videoURL, ErrUnsupportedURL)
	}

	q := url.Values{}
	q.Set("url", videoURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("oembed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oembed request: unexpected status %d", resp.StatusCode)
	}

	var body oEmbedResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, oEmbedMaxBody)).Decode(&body); err != nil {
		return "", fmt.Errorf("could not decode oembed response: %w", err)
	}

	return Clean(body.Title)
}

func (o *OEmbedResolver) handles(videoURL string) bool {
	u, err := url.Parse(videoURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range o.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
