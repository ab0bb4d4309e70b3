package formatter

import (
	"fmt"
	"html/template"

	"github.com/k7t3/horzcv/internal/chat"
	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/platform"
	"github.com/k7t3/horzcv/internal/shared"
	"github.com/k7t3/horzcv/internal/token"
)

// Item is one chat frame of a [Row].
type Item struct {
	Service      string        `json:"service"`
	ID           string        `json:"id"`
	DisplayName  string        `json:"displayName,omitempty"`
	URL          string        `json:"url"`
	ThumbnailURL string        `json:"thumbnailUrl,omitempty"`
	Frame        template.HTML `json:"frame"`
}

// Row is a rendered horizontal chat row ready for export.
type Row struct {
	Title string `json:"title"`
	Token string `json:"token"`
	Items []Item `json:"items"`
}

// NewRow builds a row for identities using the strategies in registry.
//
// Identities whose service has no strategy are skipped with the error collected in the returned slice.
func NewRow(registry *platform.Registry, identities []models.NamedIdentity) (*Row, []error) {
	var errs []error
	row := &Row{Token: token.EncodeMany(identities), Items: make([]Item, 0, len(identities))}
	frames := make([]*chat.Frame, 0, len(identities))

	for _, n := range identities {
		s, ok := registry.Lookup(n.Service())
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", shared.ErrNoDetector, n.Service()))
			continue
		}
		url, err := s.Detector.Construct(n.ID())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		html, err := s.Builder.Build(n.ID())
		if err != nil {
			errs = append(errs, err)
			continue
		}

		entry := models.RestoreEntry(n.Identity, url)
		entry.SetDisplayName(n.DisplayName)
		frames = append(frames, &chat.Frame{Entry: entry, HTML: html})

		row.Items = append(row.Items, Item{
			Service:     n.Service().Label(),
			ID:          n.ID(),
			DisplayName: n.DisplayName,
			URL:         url,
			Frame:       html,
		})
	}

	row.Title = chat.Title(frames)
	return row, errs
}

// ApplyThumbnails sets thumbnail URLs by stream URL.
func (r *Row) ApplyThumbnails(thumbnails map[string]string) {
	for i := range r.Items {
		if u, ok := thumbnails[r.Items[i].URL]; ok {
			r.Items[i].ThumbnailURL = u
		}
	}
}

// Label returns the item's display name, falling back to its id.
func (i Item) Label() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.ID
}
