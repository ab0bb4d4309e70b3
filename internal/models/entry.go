package models

import (
	"fmt"

	"github.com/k7t3/horzcv/internal/shared"
)

// Entry is a user-editable row holding a raw URL and the identity derived from it.
//
// The zero value is not ready for use; build entries with [NewEntry] or [RestoreEntry].
type Entry struct {
	service     StreamingService
	url         string
	displayName string
	id          string
}

// NewEntry returns an empty entry defaulting to [YouTube].
func NewEntry() *Entry {
	return &Entry{service: YouTube}
}

// RestoreEntry rebuilds an already-detected entry from an identity and its canonical URL.
func RestoreEntry(identity Identity, url string) *Entry {
	return &Entry{service: identity.Service(), url: url, id: identity.ID()}
}

func (e *Entry) Service() StreamingService { return e.service }
func (e *Entry) URL() string               { return e.url }
func (e *Entry) DisplayName() string       { return e.displayName }
func (e *Entry) ID() string                { return e.id }

// SetService changes the service and invalidates the detected id.
func (e *Entry) SetService(s StreamingService) {
	if e.service != s {
		e.id = ""
	}
	e.service = s
}

// SetURL replaces the raw URL and invalidates the detected id.
func (e *Entry) SetURL(url string) {
	e.url = url
	e.id = ""
}

func (e *Entry) SetDisplayName(name string) { e.displayName = name }

// SetID records the id detected from the current URL.
func (e *Entry) SetID(id string) { e.id = id }

// Invalidate clears the detected id.
func (e *Entry) Invalidate() { e.id = "" }

// IsValid reports whether an id has been detected for the current URL.
func (e *Entry) IsValid() bool { return e.id != "" }

// AsIdentity returns the entry's identity, failing when no id has been detected.
func (e *Entry) AsIdentity() (Identity, error) {
	if !e.IsValid() {
		return Identity{}, fmt.Errorf("%w: entry has no detected id", shared.ErrEmptyIdentifier)
	}
	return NewIdentity(e.service, e.id)
}

// Named returns the entry's identity with its display name attached.
func (e *Entry) Named() (NamedIdentity, error) {
	i, err := e.AsIdentity()
	if err != nil {
		return NamedIdentity{}, err
	}
	return Named(i, e.displayName), nil
}

func (e *Entry) String() string {
	return fmt.Sprintf("Entry{service=%s, url=%q, displayName=%q, id=%q}", e.service, e.url, e.displayName, e.id)
}
