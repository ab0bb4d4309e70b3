package chat

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/shared"
)

// Builder renders the embed fragment for a stream id.
type Builder interface {
	Build(id string) (template.HTML, error)
	Service() models.StreamingService
}

var (
	youtubeFrame = template.Must(template.New("youtube").Parse(
		`<iframe src="https://www.youtube.com/live_chat?v={{.ID}}&embed_domain={{.Host}}{{if .Dark}}&dark_theme=1{{end}}" class="chatFrame youtube"></iframe>`,
	))
	twitchFrame = template.Must(template.New("twitch").Parse(
		`<iframe src="https://www.twitch.tv/embed/{{.ID}}/chat?parent={{.Host}}{{if .Dark}}&darkpopout{{end}}" class="chatFrame twitch"></iframe>`,
	))
)

type frameParams struct {
	ID   string
	Host string
	Dark bool
}

// templateBuilder renders one of the frame templates.
type templateBuilder struct {
	service models.StreamingService
	tmpl    *template.Template
	host    string
	dark    bool
}

func (b *templateBuilder) Service() models.StreamingService { return b.service }

func (b *templateBuilder) Build(id string) (template.HTML, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%w: %s frame", shared.ErrEmptyIdentifier, b.service)
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, frameParams{ID: id, Host: b.host, Dark: b.dark}); err != nil {
		return "", fmt.Errorf("failed to render %s frame: %w", b.service, err)
	}
	return template.HTML(buf.String()), nil
}

// YouTubeBuilder renders the YouTube live chat iframe for a video id.
func YouTubeBuilder(host string, dark bool) Builder {
	return &templateBuilder{service: models.YouTube, tmpl: youtubeFrame, host: host, dark: dark}
}

// TwitchBuilder renders the Twitch chat iframe for a channel login.
func TwitchBuilder(host string, dark bool) Builder {
	return &templateBuilder{service: models.Twitch, tmpl: twitchFrame, host: host, dark: dark}
}

// DefaultBuilders returns a builder for every supported service.
func DefaultBuilders(host string, dark bool) []Builder {
	return []Builder{YouTubeBuilder(host, dark), TwitchBuilder(host, dark)}
}
