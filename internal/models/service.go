package models

import (
	"fmt"

	"github.com/k7t3/horzcv/internal/shared"
)

// StreamingService is a supported live streaming platform.
type StreamingService int

const (
	YouTube StreamingService = iota
	Twitch
)

var serviceAttrs = map[StreamingService]struct{ code, label string }{
	YouTube: {"y", "Youtube"},
	Twitch:  {"t", "Twitch"},
}

// Services returns every supported service in declaration order.
func Services() []StreamingService {
	return []StreamingService{YouTube, Twitch}
}

// Code returns the one-character code used in tokens.
func (s StreamingService) Code() string { return serviceAttrs[s].code }

// Label returns the human-readable name.
func (s StreamingService) Label() string { return serviceAttrs[s].label }

// Valid reports whether s is one of the declared services.
func (s StreamingService) Valid() bool {
	_, ok := serviceAttrs[s]
	return ok
}

func (s StreamingService) String() string {
	if !s.Valid() {
		return fmt.Sprintf("StreamingService(%d)", int(s))
	}
	return s.Label()
}

// MarshalText encodes s as its code.
func (s StreamingService) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", shared.ErrUnknownService, int(s))
	}
	return []byte(s.Code()), nil
}

// UnmarshalText decodes a service code.
func (s *StreamingService) UnmarshalText(b []byte) error {
	v, err := ServiceByCode(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ServiceByCode finds the service with the given code.
func ServiceByCode(code string) (StreamingService, error) {
	for _, s := range Services() {
		if s.Code() == code {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", shared.ErrUnknownServiceCode, code)
}
