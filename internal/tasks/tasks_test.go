package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/platform"
	"github.com/k7t3/horzcv/internal/shared"
	tu "github.com/k7t3/horzcv/internal/testing"
)

func newTestResolver(t *testing.T, lookup *tu.MockLookup, registry *platform.Registry) *Resolver {
	t.Helper()
	r, err := NewResolver(lookup, registry, ResolverOpts{Workers: 2, RateLimit: 1000})
	if err != nil {
		t.Fatalf("failed to create resolver: %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

func collect(progress chan ProgressUpdate) []ProgressUpdate {
	close(progress)
	var updates []ProgressUpdate
	for u := range progress {
		updates = append(updates, u)
	}
	return updates
}

func TestNewResolver(t *testing.T) {
	t.Run("requires lookup", func(t *testing.T) {
		_, err := NewResolver(nil, platform.Default("localhost", false), ResolverOpts{})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("requires registry", func(t *testing.T) {
		_, err := NewResolver(&tu.MockLookup{}, nil, ResolverOpts{})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("clamps workers", func(t *testing.T) {
		r, err := NewResolver(&tu.MockLookup{}, platform.Default("localhost", false), ResolverOpts{Workers: 50})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer r.Close()
		if got := r.pool.Cap(); got != maxWorkers {
			t.Errorf("expected %d workers, got %d", maxWorkers, got)
		}
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	yt := models.MustIdentity(models.YouTube, "abc123")
	tw := models.MustIdentity(models.Twitch, "streamer")

	lookup := &tu.MockLookup{Responses: map[string]models.StreamerInfoResponse{
		"https://www.youtube.com/watch?v=abc123": models.NewStreamerInfoResponse(models.StreamerInfo{Name: "YT Channel"}),
	}}

	t.Run("resolves identities in input order", func(t *testing.T) {
		r := newTestResolver(t, lookup, platform.Default("localhost", false))
		progress := make(chan ProgressUpdate, 16)

		res, err := r.Resolve(ctx, progress, []models.NamedIdentity{models.Named(yt, ""), models.Named(tw, "Kept")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if res.Total != 2 || res.Resolved != 1 || res.Unresolved != 1 {
			t.Errorf("unexpected counts: total=%d resolved=%d unresolved=%d", res.Total, res.Resolved, res.Unresolved)
		}
		if res.Results[0].Identity.Identity != yt || res.Results[1].Identity.Identity != tw {
			t.Errorf("results out of order: %+v", res.Results)
		}
		if res.Results[0].Info == nil || res.Results[0].Info.Name != "YT Channel" {
			t.Errorf("expected YT Channel, got %+v", res.Results[0].Info)
		}
		if res.Results[1].URL != "https://www.twitch.tv/streamer" {
			t.Errorf("unexpected twitch URL %q", res.Results[1].URL)
		}

		updates := collect(progress)
		if len(updates) != 4 {
			t.Fatalf("expected 4 updates, got %d", len(updates))
		}
		if updates[0].Phase != Prepare || updates[3].Phase != Complete {
			t.Errorf("unexpected phases: %v, %v", updates[0].Phase, updates[3].Phase)
		}
		for _, u := range updates[1:3] {
			if u.Phase != Resolve {
				t.Errorf("expected resolve phase, got %v", u.Phase)
			}
		}
	})

	t.Run("names keep existing unless overwriting", func(t *testing.T) {
		lookup := &tu.MockLookup{Responses: map[string]models.StreamerInfoResponse{
			"https://www.youtube.com/watch?v=abc123": models.NewStreamerInfoResponse(models.StreamerInfo{Name: "YT Channel"}),
			"https://www.twitch.tv/streamer":         models.NewStreamerInfoResponse(models.StreamerInfo{Name: "Streamer"}),
		}}
		r := newTestResolver(t, lookup, platform.Default("localhost", false))

		res, err := r.Resolve(ctx, nil, []models.NamedIdentity{models.Named(yt, ""), models.Named(tw, "Kept")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		kept := res.Names(false)
		if kept[0].DisplayName != "YT Channel" || kept[1].DisplayName != "Kept" {
			t.Errorf("unexpected names without overwrite: %+v", kept)
		}
		replaced := res.Names(true)
		if replaced[1].DisplayName != "Streamer" {
			t.Errorf("expected overwritten name, got %q", replaced[1].DisplayName)
		}
	})

	t.Run("unregistered service is recorded per identity", func(t *testing.T) {
		registry := platform.NewRegistry()
		full := platform.Default("localhost", false)
		s, _ := full.Lookup(models.YouTube)
		if err := registry.Register(s); err != nil {
			t.Fatalf("failed to register: %v", err)
		}
		lookup := &tu.MockLookup{}
		r := newTestResolver(t, lookup, registry)

		res, err := r.Resolve(ctx, nil, []models.NamedIdentity{models.Named(tw, "")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !errors.Is(res.Results[0].Error, shared.ErrNoDetector) {
			t.Errorf("expected ErrNoDetector, got %v", res.Results[0].Error)
		}
		if len(lookup.Queries()) != 0 {
			t.Errorf("expected no lookups, got %v", lookup.Queries())
		}
		if res.Unresolved != 1 {
			t.Errorf("expected 1 unresolved, got %d", res.Unresolved)
		}
	})

	t.Run("cancelled context interrupts", func(t *testing.T) {
		r := newTestResolver(t, &tu.MockLookup{}, platform.Default("localhost", false))
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		res, err := r.Resolve(cancelled, nil, []models.NamedIdentity{models.Named(yt, ""), models.Named(tw, "")})
		if err == nil {
			t.Fatal("expected error for cancelled context")
		}
		if !strings.Contains(err.Error(), "resolve interrupted") {
			t.Errorf("unexpected error %v", err)
		}
		for _, r := range res.Results {
			if r.Error == nil {
				t.Errorf("expected error on %s", r.Identity.Identity)
			}
		}
	})

	t.Run("empty input", func(t *testing.T) {
		r := newTestResolver(t, &tu.MockLookup{}, platform.Default("localhost", false))
		res, err := r.Resolve(ctx, nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Total != 0 || len(res.Results) != 0 {
			t.Errorf("expected empty result, got %+v", res)
		}
	})
}

func TestProgressMessages(t *testing.T) {
	yt := models.MustIdentity(models.YouTube, "abc")

	tests := []struct {
		name string
		r    IdentityResult
		want string
	}{
		{"identified", IdentityResult{Identity: models.Named(yt, ""), Info: &models.StreamerInfo{Name: "Chan"}}, "✓"},
		{"not identified", IdentityResult{Identity: models.Named(yt, "")}, "not identified"},
		{"failed", IdentityResult{Identity: models.Named(yt, ""), Error: shared.ErrNoDetector}, "no detector"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := resolvedUpdate(1, 1, tt.r)
			if !strings.Contains(u.Message, tt.want) {
				t.Errorf("expected %q in %q", tt.want, u.Message)
			}
		})
	}

	if Resolve.String() != "resolve" || Phase(9).String() != "" {
		t.Error("unexpected phase strings")
	}
}
