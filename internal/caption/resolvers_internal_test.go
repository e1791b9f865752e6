package caption

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeminiResolver(t *testing.T) {
	tests := map[string]struct {
		generate generateFunc
		exp      string
		expErr   bool
	}{
		"The model answer should be cleaned.": {
			generate: func(_ context.Context, prompt string) (string, error) {
				if !strings.Contains(prompt, "https://www.tiktok.com/@u/video/1") {
					return "", errors.New("missing url in prompt")
				}
				return "\"Cooking pasta\"\n", nil
			},
			exp: "Cooking pasta",
		},
		"A model error should fail.": {
			generate: func(context.Context, string) (string, error) { return "", errors.New("quota") },
			expErr:   true,
		},
		"An empty answer should fail.": {
			generate: func(context.Context, string) (string, error) { return " ", nil },
			expErr:   true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			g := &GeminiResolver{generate: test.generate}
			got, err := g.Resolve(context.Background(), "https://www.tiktok.com/@u/video/1")
			if test.expErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.exp, got)
		})
	}
}

func TestNewGeminiResolverRequiresKey(t *testing.T) {
	_, err := NewGeminiResolver(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}

func TestYouTubeResolver(t *testing.T) {
	items := []playlistItem{
		{VideoID: "aaa", Title: "First"},
		{VideoID: "bbb", Title: "Second"},
	}

	tests := map[string]struct {
		url         string
		playlistErr error
		exp         string
		expErr      error
	}{
		"A video in the playlist should return its title.": {
			url: "https://www.youtube.com/watch?v=bbb&list=PL1",
			exp: "Second",
		},
		"A short URL with a playlist should be supported.": {
			url: "https://youtu.be/aaa?list=PL1",
			exp: "First",
		},
		"A video missing from the playlist should fail.": {
			url:    "https://www.youtube.com/watch?v=zzz&list=PL1",
			expErr: ErrNoCaption,
		},
		"A URL without playlist should be unsupported.": {
			url:    "https://www.youtube.com/watch?v=aaa",
			expErr: ErrUnsupportedURL,
		},
		"A non YouTube URL should be unsupported.": {
			url:    "https://www.tiktok.com/@u/video/1",
			expErr: ErrUnsupportedURL,
		},
		"A playlist error should be returned.": {
			url:         "https://www.youtube.com/watch?v=aaa&list=PL1",
			playlistErr: errors.New("network"),
			expErr:      errors.New("network"),
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			y := NewYouTubeResolver(0)
			y.playlist = func(_ context.Context, playlistID string) ([]playlistItem, error) {
				assert.Equal(t, "PL1", playlistID)
				if test.playlistErr != nil {
					return nil, test.playlistErr
				}
				return items, nil
			}

			got, err := y.Resolve(context.Background(), test.url)
			if test.expErr != nil {
				if errors.Is(test.expErr, ErrNoCaption) || errors.Is(test.expErr, ErrUnsupportedURL) {
					assert.ErrorIs(t, err, test.expErr)
				} else {
					assert.ErrorContains(t, err, test.expErr.Error())
				}
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.exp, got)
		})
	}
}
