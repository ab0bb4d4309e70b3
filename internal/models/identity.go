package models

import (
	"fmt"
	"strings"

	"github.com/k7t3/horzcv/internal/shared"
)

// Identity is the (service, id) pair naming a stream.
type Identity struct {
	service StreamingService
	id      string
}

// NewIdentity validates and builds an [Identity].
func NewIdentity(service StreamingService, id string) (Identity, error) {
	if !service.Valid() {
		return Identity{}, fmt.Errorf("%w: %d", shared.ErrUnknownService, int(service))
	}
	if strings.TrimSpace(id) == "" {
		return Identity{}, shared.ErrEmptyIdentifier
	}
	return Identity{service: service, id: id}, nil
}

// MustIdentity is like [NewIdentity] but panics on error. Intended for constants and tests.
func MustIdentity(service StreamingService, id string) Identity {
	i, err := NewIdentity(service, id)
	if err != nil {
		panic(err)
	}
	return i
}

func (i Identity) Service() StreamingService { return i.service }
func (i Identity) ID() string                { return i.id }

// IsZero reports whether i was never initialised.
func (i Identity) IsZero() bool { return i.id == "" }

func (i Identity) String() string {
	return fmt.Sprintf("%s:%s", i.service, i.id)
}

// NamedIdentity is an [Identity] with an optional display name.
type NamedIdentity struct {
	Identity
	DisplayName string
}

// Named attaches a display name to an identity.
func Named(i Identity, name string) NamedIdentity {
	return NamedIdentity{Identity: i, DisplayName: name}
}
