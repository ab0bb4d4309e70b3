// Package platform holds the per-service strategy pairs (detector and chat builder) the rest of the
// application is configured from.
package platform

import (
	"fmt"

	"github.com/k7t3/horzcv/internal/chat"
	"github.com/k7t3/horzcv/internal/detector"
	"github.com/k7t3/horzcv/internal/editor"
	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/shared"
)

// Strategy pairs the URL detector and chat builder for one service.
type Strategy struct {
	Detector detector.Detector
	Builder  chat.Builder
}

// Service returns the service the strategy serves.
func (s Strategy) Service() models.StreamingService { return s.Detector.Service() }

// Registry is an ordered set of strategies, one per service.
type Registry struct {
	strategies []Strategy
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make([]Strategy, 0, len(models.Services()))}
}

// Default returns a registry with YouTube then Twitch, with builders for host.
func Default(host string, dark bool) *Registry {
	r := NewRegistry()
	_ = r.Register(Strategy{Detector: detector.NewYouTube(), Builder: chat.YouTubeBuilder(host, dark)})
	_ = r.Register(Strategy{Detector: detector.NewTwitch(), Builder: chat.TwitchBuilder(host, dark)})
	return r
}

// Register adds s, replacing an existing strategy for the same service in place.
func (r *Registry) Register(s Strategy) error {
	if s.Detector == nil {
		return shared.ErrNoDetector
	}
	if s.Builder == nil {
		return fmt.Errorf("%w: %s", shared.ErrNoBuilder, s.Detector.Service())
	}
	if s.Builder.Service() != s.Detector.Service() {
		return fmt.Errorf("%w: builder for %s paired with detector for %s",
			shared.ErrInvalidArgument, s.Builder.Service(), s.Detector.Service())
	}

	for i, existing := range r.strategies {
		if existing.Service() == s.Service() {
			r.strategies[i] = s
			return nil
		}
	}
	r.strategies = append(r.strategies, s)
	return nil
}

// Lookup returns the strategy for service.
func (r *Registry) Lookup(service models.StreamingService) (Strategy, bool) {
	for _, s := range r.strategies {
		if s.Service() == service {
			return s, true
		}
	}
	return Strategy{}, false
}

// Strategies returns the registered strategies in order.
func (r *Registry) Strategies() []Strategy {
	out := make([]Strategy, len(r.strategies))
	copy(out, r.strategies)
	return out
}

// Services lists the registered services in order.
func (r *Registry) Services() []models.StreamingService {
	out := make([]models.StreamingService, len(r.strategies))
	for i, s := range r.strategies {
		out[i] = s.Service()
	}
	return out
}

// NewEditor creates an editor with every registered detector.
func (r *Registry) NewEditor(e *editor.Editor) *editor.Editor {
	for _, s := range r.strategies {
		e.RegisterDetector(s.Detector)
	}
	return e
}

// NewList wires every registered builder into l.
func (r *Registry) NewList(l *chat.List) *chat.List {
	for _, s := range r.strategies {
		l.RegisterBuilder(s.Builder)
	}
	return l
}
