package chat

import (
	"html/template"
	"io"

	"github.com/charmbracelet/log"
	"github.com/k7t3/horzcv/internal/models"
)

// Frame is an embeddable chat widget for one entry.
type Frame struct {
	Entry *models.Entry
	HTML  template.HTML
}

// Identity returns the frame's identity with the entry's current display name.
func (f *Frame) Identity() (models.NamedIdentity, error) {
	return f.Entry.Named()
}

// List turns entries into frames using per-service builders.
type List struct {
	builders map[models.StreamingService]Builder
	frames   []*Frame
	logger   *log.Logger
}

// NewList creates an empty list. A nil logger discards output.
func NewList(logger *log.Logger) *List {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &List{builders: make(map[models.StreamingService]Builder), logger: logger}
}

// RegisterBuilder wires b for its service, replacing any previous builder.
func (l *List) RegisterBuilder(b Builder) {
	l.builders[b.Service()] = b
}

// Builder returns the builder registered for s.
func (l *List) Builder(s models.StreamingService) (Builder, bool) {
	b, ok := l.builders[s]
	return b, ok
}

// SetAll rebuilds the frames from entries in order.
//
// Entries whose service has no builder, or that carry no detected id, produce no frame.
func (l *List) SetAll(entries []*models.Entry) {
	l.frames = l.frames[:0:0]
	for _, entry := range entries {
		b, ok := l.builders[entry.Service()]
		if !ok {
			l.logger.Debug("no builder for entry", "service", entry.Service())
			continue
		}
		html, err := b.Build(entry.ID())
		if err != nil {
			l.logger.Warn("skipping entry", "entry", entry, "error", err)
			continue
		}
		l.frames = append(l.frames, &Frame{Entry: entry, HTML: html})
	}
}

// Frames returns the frames in display order.
func (l *List) Frames() []*Frame {
	out := make([]*Frame, len(l.frames))
	copy(out, l.frames)
	return out
}

// Len returns the number of frames.
func (l *List) Len() int { return len(l.frames) }
