// Package editor holds the user's in-progress set of stream entries.
//
// The [Editor] owns detectors per service, the ordered working set of [models.Entry] values, and
// the rules for turning them into identities. Detectors are consulted in registration order, which
// makes [Editor.FindSuitableService] a stable tie-break while the user types.
//
// [Editor.ActiveIdentities] is a pure transform: it never writes the parsed id back into entries.
// Use [Editor.Detect] to record a detection on an entry explicitly.
package editor

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/k7t3/horzcv/internal/detector"
	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/shared"
)

const (
	// MinForms is the number of rows the landing page always shows.
	MinForms = 4
	// MaxForms is the most rows the editor accepts.
	MaxForms = 8
)

// Editor manages stream entries and the detectors that validate them.
type Editor struct {
	detectors []detector.Detector
	entries   []*models.Entry
	logger    *log.Logger
}

// New creates an empty editor. A nil logger discards output.
func New(logger *log.Logger) *Editor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Editor{logger: logger}
}

// RegisterDetector wires d for its service. Registering a service again replaces its detector in place.
func (e *Editor) RegisterDetector(d detector.Detector) {
	for i, existing := range e.detectors {
		if existing.Service() == d.Service() {
			e.detectors[i] = d
			return
		}
	}
	e.detectors = append(e.detectors, d)
}

// Detector returns the detector registered for s.
func (e *Editor) Detector(s models.StreamingService) (detector.Detector, bool) {
	for _, d := range e.detectors {
		if d.Service() == s {
			return d, true
		}
	}
	return nil, false
}

// Entries returns the working set in order. The slice is a copy; the entries are shared.
func (e *Editor) Entries() []*models.Entry {
	return slices.Clone(e.entries)
}

// Len returns the number of entries.
func (e *Editor) Len() int { return len(e.entries) }

// Add appends entry. Duplicates are allowed; the working set is capped at [MaxForms].
func (e *Editor) Add(entry *models.Entry) error {
	if len(e.entries) >= MaxForms {
		return fmt.Errorf("%w: at most %d entries", shared.ErrTooManyEntries, MaxForms)
	}
	e.entries = append(e.entries, entry)
	return nil
}

// AddEmpty appends a fresh entry and returns it.
func (e *Editor) AddEmpty() (*models.Entry, error) {
	entry := models.NewEntry()
	if err := e.Add(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Remove deletes entry from the working set, matching by reference.
func (e *Editor) Remove(entry *models.Entry) bool {
	i := slices.Index(e.entries, entry)
	if i < 0 {
		return false
	}
	e.entries = slices.Delete(e.entries, i, i+1)
	return true
}

// Contains reports whether entry is still part of the working set.
func (e *Editor) Contains(entry *models.Entry) bool {
	return slices.Contains(e.entries, entry)
}

// Clear empties the working set.
func (e *Editor) Clear() { e.entries = nil }

// Fill pads the working set with empty entries up to [MinForms].
func (e *Editor) Fill() {
	for len(e.entries) < MinForms {
		e.entries = append(e.entries, models.NewEntry())
	}
}

// SetAll replaces the working set with one restored entry per identity.
//
// Identities without a registered detector are dropped. Display names are carried over.
func (e *Editor) SetAll(list []models.NamedIdentity) {
	e.entries = make([]*models.Entry, 0, len(list))
	for _, n := range list {
		d, ok := e.Detector(n.Service())
		if !ok {
			e.logger.Debug("dropping identity without detector", "identity", n.Identity)
			continue
		}
		url, err := d.Construct(n.ID())
		if err != nil {
			e.logger.Warn("dropping identity", "identity", n.Identity, "error", err)
			continue
		}
		entry := models.RestoreEntry(n.Identity, url)
		entry.SetDisplayName(n.DisplayName)
		e.entries = append(e.entries, entry)
	}
}

// RestoreFromIdentities replaces the working set from bare identities.
func (e *Editor) RestoreFromIdentities(identities []models.Identity) {
	list := make([]models.NamedIdentity, len(identities))
	for i, id := range identities {
		list[i] = models.Named(id, "")
	}
	e.SetAll(list)
}

// FindSuitableService returns the service of the first registered detector accepting url.
func (e *Editor) FindSuitableService(url string) (models.StreamingService, bool) {
	for _, d := range e.detectors {
		if d.IsValidURL(url) {
			return d.Service(), true
		}
	}
	return 0, false
}

// Validate reports whether entry's service has a detector that accepts entry's URL.
func (e *Editor) Validate(entry *models.Entry) bool {
	d, ok := e.Detector(entry.Service())
	if !ok {
		return false
	}
	return d.IsValidURL(entry.URL())
}

// Detect infers entry's service from its URL, validates it, and records the parsed id.
//
// On failure the entry is left invalid and the error wraps [shared.ErrInvalidURL].
func (e *Editor) Detect(entry *models.Entry) error {
	entry.Invalidate()

	if s, ok := e.FindSuitableService(entry.URL()); ok {
		entry.SetService(s)
	}
	if !e.Validate(entry) {
		return fmt.Errorf("%w: %q", shared.ErrInvalidURL, entry.URL())
	}

	d, _ := e.Detector(entry.Service())
	id, err := d.ParseID(entry.URL())
	if err != nil {
		return err
	}
	entry.SetID(id)
	return nil
}

// ActiveIdentities returns the identities of every valid entry, in order, with display names.
//
// Entries are not modified.
func (e *Editor) ActiveIdentities() []models.NamedIdentity {
	var out []models.NamedIdentity
	for _, entry := range e.entries {
		n, err := e.identify(entry)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// ActiveEntries pairs each valid entry with its identity.
func (e *Editor) ActiveEntries() []Active {
	var out []Active
	for _, entry := range e.entries {
		n, err := e.identify(entry)
		if err != nil {
			continue
		}
		out = append(out, Active{Entry: entry, Identity: n})
	}
	return out
}

// Active is a valid entry and the identity parsed from it.
type Active struct {
	Entry    *models.Entry
	Identity models.NamedIdentity
}

func (e *Editor) identify(entry *models.Entry) (models.NamedIdentity, error) {
	if !e.Validate(entry) {
		return models.NamedIdentity{}, shared.ErrInvalidURL
	}
	d, _ := e.Detector(entry.Service())
	id, err := d.ParseID(entry.URL())
	if err != nil {
		return models.NamedIdentity{}, err
	}
	i, err := models.NewIdentity(entry.Service(), id)
	if err != nil {
		return models.NamedIdentity{}, err
	}
	return models.Named(i, entry.DisplayName()), nil
}
