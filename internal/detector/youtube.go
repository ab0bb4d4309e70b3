package detector

import (
	"regexp"

	"github.com/k7t3/horzcv/internal/models"
)

var (
	youtubeValid = regexp.MustCompile(`^https://www\.youtube\.com/(watch\?v=|live/)[^/&?#,;]+`)
	youtubeID    = regexp.MustCompile(`www\.youtube\.com/(?:watch\?v=|live/)([^/&?#,;]+)`)
)

// NewYouTube returns the detector for YouTube watch and live URLs.
//
//	https://www.youtube.com/watch?v=ID
//	https://www.youtube.com/live/ID
func NewYouTube() Detector {
	return &patternDetector{
		service:     models.YouTube,
		valid:       youtubeValid,
		id:          youtubeID,
		prefix:      "https://www.youtube.com/watch?v=",
		placeholder: "https://www.youtube.com/watch?v=...",
	}
}
