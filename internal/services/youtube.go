package services

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/shared"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

var youtubeVideoPattern = regexp.MustCompile(`https?://(?:www\.)?youtube\.com/(?:watch\?v=|live/)([^/&?]+)`)

// YouTubeOpts configures a [YouTubeFinder].
type YouTubeOpts struct {
	APIKey     string
	Endpoint   string // Overrides the API root, e.g. for tests
	HTTPClient *http.Client
}

// YouTubeFinder resolves watch and live URLs to the channel behind the video.
type YouTubeFinder struct {
	svc *youtube.Service
}

// NewYouTubeFinder creates a finder using the YouTube Data API.
func NewYouTubeFinder(ctx context.Context, opts YouTubeOpts) (*YouTubeFinder, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: youtube api_key", shared.ErrMissingCredentials)
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	svc, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &YouTubeFinder{svc: svc}, nil
}

// Name returns the platform name.
func (y *YouTubeFinder) Name() string { return "YouTube" }

// Accepts reports whether query is a YouTube watch or live URL.
func (y *YouTubeFinder) Accepts(query string) bool {
	return youtubeVideoPattern.MatchString(query)
}

// Find reads the video's channel and returns its title and default thumbnail.
func (y *YouTubeFinder) Find(ctx context.Context, query string) (models.StreamerInfoResponse, error) {
	m := youtubeVideoPattern.FindStringSubmatch(query)
	if m == nil {
		return models.EmptyStreamerInfoResponse(), nil
	}

	videos, err := y.svc.Videos.List([]string{"snippet"}).Id(m[1]).Context(ctx).Do()
	if err != nil {
		return models.StreamerInfoResponse{}, fmt.Errorf("%w: youtube videos: %v", shared.ErrAPIRequest, err)
	}
	if len(videos.Items) == 0 || videos.Items[0].Snippet == nil {
		return models.EmptyStreamerInfoResponse(), nil
	}
	channelID := videos.Items[0].Snippet.ChannelId

	channels, err := y.svc.Channels.List([]string{"snippet"}).Id(channelID).Context(ctx).Do()
	if err != nil {
		return models.StreamerInfoResponse{}, fmt.Errorf("%w: youtube channels: %v", shared.ErrAPIRequest, err)
	}
	if len(channels.Items) == 0 || channels.Items[0].Snippet == nil {
		return models.EmptyStreamerInfoResponse(), nil
	}

	snippet := channels.Items[0].Snippet
	var thumbnail string
	if snippet.Thumbnails != nil && snippet.Thumbnails.Default != nil {
		thumbnail = snippet.Thumbnails.Default.Url
	}

	return models.NewStreamerInfoResponse(models.StreamerInfo{
		Name:         snippet.Title,
		ThumbnailURL: thumbnail,
		StreamURL:    query,
	}), nil
}
