package services

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/shared"
	"github.com/nicklaw5/helix/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	twitchTokenURL     = "https://id.twitch.tv/oauth2/token"
	twitchStreamPrefix = "https://www.twitch.tv/"
	twitchSearchLimit  = 10
)

var twitchLoginPattern = regexp.MustCompile(`https?://(?:www\.)?twitch\.tv/([^/]+)$`)

// TwitchOpts configures a [TwitchFinder].
type TwitchOpts struct {
	ClientID     string
	ClientSecret string
	TokenURL     string // Defaults to the Twitch OAuth2 token endpoint
	APIBaseURL   string // Defaults to the Helix API
	HTTPClient   *http.Client
}

// TwitchFinder resolves twitch.tv channel URLs through Helix channel search.
type TwitchFinder struct {
	client *helix.Client
	tokens oauth2.TokenSource
	mu     sync.Mutex
}

// NewTwitchFinder creates a finder authenticated with an app access token.
func NewTwitchFinder(ctx context.Context, opts TwitchOpts) (*TwitchFinder, error) {
	if opts.ClientID == "" || opts.ClientSecret == "" {
		return nil, fmt.Errorf("%w: twitch client_id and client_secret", shared.ErrMissingCredentials)
	}
	if opts.TokenURL == "" {
		opts.TokenURL = twitchTokenURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	client, err := helix.NewClient(&helix.Options{
		ClientID:   opts.ClientID,
		APIBaseURL: opts.APIBaseURL,
		HTTPClient: opts.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create helix client: %w", err)
	}

	config := &clientcredentials.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		TokenURL:     opts.TokenURL,
	}
	tokenCtx := context.WithValue(context.WithoutCancel(ctx), oauth2.HTTPClient, opts.HTTPClient)

	return &TwitchFinder{client: client, tokens: config.TokenSource(tokenCtx)}, nil
}

// Name returns the platform name.
func (t *TwitchFinder) Name() string { return "Twitch" }

// Accepts reports whether query is a twitch.tv channel URL.
func (t *TwitchFinder) Accepts(query string) bool {
	return twitchLoginPattern.MatchString(query)
}

// Find searches channels for the login in query and returns the exact, case-insensitive match.
func (t *TwitchFinder) Find(ctx context.Context, query string) (models.StreamerInfoResponse, error) {
	m := twitchLoginPattern.FindStringSubmatch(query)
	if m == nil {
		return models.EmptyStreamerInfoResponse(), nil
	}
	login := m[1]

	channels, err := t.search(ctx, login)
	if err != nil {
		return models.StreamerInfoResponse{}, err
	}

	for _, ch := range channels {
		if strings.EqualFold(ch.BroadcasterLogin, login) {
			return models.NewStreamerInfoResponse(models.StreamerInfo{
				Name:         ch.DisplayName,
				ThumbnailURL: ch.ThumbnailURL,
				StreamURL:    twitchStreamPrefix + login,
			}), nil
		}
	}
	return models.EmptyStreamerInfoResponse(), nil
}

func (t *TwitchFinder) search(ctx context.Context, login string) ([]helix.Channel, error) {
	tok, err := t.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: twitch app access token: %v", shared.ErrAPIRequest, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.client.SetAppAccessToken(tok.AccessToken)
	resp, err := t.client.SearchChannels(&helix.SearchChannelsParams{Channel: login, First: twitchSearchLimit})
	if err != nil {
		return nil, fmt.Errorf("%w: twitch channel search: %v", shared.ErrAPIRequest, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: twitch channel search returned %d: %s", shared.ErrAPIRequest, resp.StatusCode, resp.ErrorMessage)
	}
	return resp.Data.Channels, nil
}
