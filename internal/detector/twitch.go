package detector

import (
	"regexp"

	"github.com/k7t3/horzcv/internal/models"
)

// The "www." group is mandatory; bare twitch.tv URLs are not accepted.
// The login stops at a path, query or fragment separator and never contains a token delimiter.
var twitchChannel = regexp.MustCompile(`^https?://(?:www\.)twitch\.tv/([^/?#,;]+)`)

// NewTwitch returns the detector for Twitch channel URLs (https://www.twitch.tv/LOGIN).
func NewTwitch() Detector {
	return &patternDetector{
		service:     models.Twitch,
		valid:       twitchChannel,
		id:          twitchChannel,
		prefix:      "https://www.twitch.tv/",
		placeholder: "https://www.twitch.tv/...",
	}
}
