// Package caption turns a video URL into a human readable display name.
// Resolvers are unreliable by nature: callers are expected to fall back to
// FallbackName when every resolver fails.
package caption

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ytget/tokbulk/internal/log"
)

// Caption length limits
const (
	MaxCaptionLength       = 150
	TruncatedCaptionLength = 147
	TruncationSuffix       = "..."
	FallbackPrefix         = "tiktok-"
)

var (
	// ErrNoCaption is returned when no caption could be resolved.
	ErrNoCaption = errors.New("no caption")
	// ErrUnsupportedURL is returned by resolvers that can't handle a URL.
	ErrUnsupportedURL = errors.New("unsupported url")
)

var videoIDRegexp = regexp.MustCompile(`/video/(\d+)`)

// Resolver maps a video URL to a display name.
type Resolver interface {
	Resolve(ctx context.Context, url string) (string, error)
}

// ResolverFunc is a helper to create resolvers from functions.
type ResolverFunc func(ctx context.Context, url string) (string, error)

func (f ResolverFunc) Resolve(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// Clean normalizes a raw caption: trims it, strips surrounding quotes and
// truncates it when it's too long for a file name.
func Clean(raw string) (string, error) {
	c := strings.TrimSpace(raw)
	if c != "" && isQuote(c[0]) {
		c = c[1:]
	}
	if c != "" && isQuote(c[len(c)-1]) {
		c = c[:len(c)-1]
	}
	c = strings.TrimSpace(c)
	if c == "" {
		return "", fmt.Errorf("empty caption: %w", ErrNoCaption)
	}

	if utf8.RuneCountInString(c) > MaxCaptionLength {
		c = string([]rune(c)[:TruncatedCaptionLength]) + TruncationSuffix
	}

	return c, nil
}

func isQuote(b byte) bool { return b == '"' || b == '\'' }

// FallbackName returns a deterministic name for a URL: the numeric video ID
// when the URL has one, otherwise the given time in milliseconds.
func FallbackName(url string, now time.Time) string {
	if m := videoIDRegexp.FindStringSubmatch(url); len(m) == 2 {
		return FallbackPrefix + m[1]
	}
	return fmt.Sprintf("%s%d", FallbackPrefix, now.UnixMilli())
}

// Chain tries resolvers in order and returns the first caption found.
type Chain struct {
	resolvers []Resolver
	logger    log.Logger
}

// NewChain returns a new resolver chain.
func NewChain(logger log.Logger, resolvers ...Resolver) *Chain {
	if logger == nil {
		logger = log.Noop
	}

	return &Chain{
		resolvers: resolvers,
		logger:    logger.WithValues(log.Kv{"svc": "caption.Chain"}),
	}
}

// Resolve satisfies Resolver.
func (c *Chain) Resolve(ctx context.Context, url string) (string, error) {
	var errs []error
	for _, r := range c.resolvers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		caption, err := r.Resolve(ctx, url)
		if err == nil {
			return caption, nil
		}

		if !errors.Is(err, ErrUnsupportedURL) {
			c.logger.Debugf("Caption resolver failed for %s: %s", url, err)
		}
		errs = append(errs, err)
	}

	return "", fmt.Errorf("%w: %w", ErrNoCaption, errors.Join(errs...))
}
