package caption

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"
)

// DefaultYouTubeTimeout bounds a playlist lookup.
const DefaultYouTubeTimeout = 60 * time.Second

// URL parameters
const (
	playlistParam = "list"
	videoParam    = "v"
)

type playlistItem struct {
	VideoID string
	Title   string
}

type playlistFunc func(ctx context.Context, playlistID string) ([]playlistItem, error)

// YouTubeResolver finds the title of a video opened from a playlist
// (watch?v=...&list=...) by listing the playlist with ytdlp.
type YouTubeResolver struct {
	timeout  time.Duration
	playlist playlistFunc
}

// NewYouTubeResolver returns a new YouTube resolver.
func NewYouTubeResolver(timeout time.Duration) *YouTubeResolver {
	if timeout <= 0 {
		timeout = DefaultYouTubeTimeout
	}

	return &YouTubeResolver{
		timeout:  timeout,
		playlist: ytdlpPlaylist,
	}
}

func ytdlpPlaylist(ctx context.Context, playlistID string) ([]playlistItem, error) {
	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}

	out := make([]playlistItem, 0, len(items))
	for _, it := range items {
		out = append(out, playlistItem{VideoID: it.VideoID, Title: it.Title})
	}
	return out, nil
}

// Resolve satisfies Resolver.
func (y *YouTubeResolver) Resolve(ctx context.Context, videoURL string) (string, error) {
	videoID, playlistID, ok := parseYouTubeURL(videoURL)
	if !ok {
		return "", fmt.Errorf("youtube %q: %w", videoURL, ErrUnsupportedURL)
	}

	ctx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	items, err := y.playlist(ctx, playlistID)
	if err != nil {
		return "", fmt.Errorf("failed to get playlist items: %w", err)
	}

	for _, it := range items {
		if it.VideoID == videoID {
			return Clean(it.Title)
		}
	}

	return "", fmt.Errorf("video %s not in playlist %s: %w", videoID, playlistID, ErrNoCaption)
}

func parseYouTubeURL(videoURL string) (videoID, playlistID string, ok bool) {
	u, err := url.Parse(videoURL)
	if err != nil {
		return "", "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	q := u.Query()
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		videoID = q.Get(videoParam)
	case "youtu.be":
		videoID = strings.Trim(u.Path, "/")
	default:
		return "", "", false
	}

	playlistID = q.Get(playlistParam)
	if videoID == "" || playlistID == "" {
		return "", "", false
	}
	return videoID, playlistID, true
}
