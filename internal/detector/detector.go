// Package detector recognises live stream URLs per streaming service.
//
// A [Detector] validates that a URL belongs to its service, extracts the canonical stream id from it,
// and rebuilds the canonical URL from an id. Detectors are pure and regex driven.
//
// Id extraction uses a capture group directly after the literal prefix rather than a lookbehind.
package detector

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/shared"
)

// Detector recognises the URLs of one streaming service.
type Detector interface {
	// IsValidURL reports whether url belongs to the service. Empty input is invalid.
	IsValidURL(url string) bool
	// ParseID extracts the stream id, failing with [shared.ErrInvalidURL] on no match.
	ParseID(url string) (string, error)
	// Construct builds the canonical URL for id, failing with [shared.ErrEmptyIdentifier] on a blank id.
	Construct(id string) (string, error)
	// Placeholder is an example URL shown in empty inputs.
	Placeholder() string
	Service() models.StreamingService
}

// patternDetector implements [Detector] with a validity pattern, an id pattern and a URL prefix.
type patternDetector struct {
	service     models.StreamingService
	valid       *regexp.Regexp
	id          *regexp.Regexp
	prefix      string
	placeholder string
}

func (d *patternDetector) Service() models.StreamingService { return d.service }
func (d *patternDetector) Placeholder() string              { return d.placeholder }

func (d *patternDetector) IsValidURL(url string) bool {
	if url == "" {
		return false
	}
	return d.valid.MatchString(url)
}

func (d *patternDetector) ParseID(url string) (string, error) {
	m := d.id.FindStringSubmatch(url)
	if len(m) < 2 || m[1] == "" {
		return "", fmt.Errorf("%w: %s: %q", shared.ErrInvalidURL, d.service, url)
	}
	return m[1], nil
}

func (d *patternDetector) Construct(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrEmptyIdentifier, d.service)
	}
	return d.prefix + id, nil
}

// Identify parses url with d and returns the resulting identity.
func Identify(d Detector, url string) (models.Identity, error) {
	if !d.IsValidURL(url) {
		return models.Identity{}, fmt.Errorf("%w: %s: %q", shared.ErrInvalidURL, d.Service(), url)
	}
	id, err := d.ParseID(url)
	if err != nil {
		return models.Identity{}, err
	}
	return models.NewIdentity(d.Service(), id)
}

// Defaults returns the detectors for every supported service in lookup order.
func Defaults() []Detector {
	return []Detector{NewYouTube(), NewTwitch()}
}
