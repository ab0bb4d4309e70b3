package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/shared"
	tu "github.com/k7t3/horzcv/internal/testing"
)

func info(name string) models.StreamerInfoResponse {
	return models.NewStreamerInfoResponse(models.StreamerInfo{Name: name})
}

func TestFinders(t *testing.T) {
	t.Run("blank query skips finders", func(t *testing.T) {
		mock := tu.NewMockFinder("mock", info("x"), nil)
		f := NewFinders(FindersOpts{}, mock)

		resp := f.Lookup(context.Background(), "   ")
		if resp.Identified || len(resp.Candidates) != 0 {
			t.Errorf("expected empty response, got %+v", resp)
		}
		if mock.Calls() != 0 {
			t.Errorf("expected no calls, got %d", mock.Calls())
		}
	})

	t.Run("first identified result wins", func(t *testing.T) {
		empty := tu.NewMockFinder("empty", models.EmptyStreamerInfoResponse(), nil)
		first := tu.NewMockFinder("first", info("First"), nil)
		second := tu.NewMockFinder("second", info("Second"), nil)
		f := NewFinders(FindersOpts{}, empty, first, second)

		resp := f.Lookup(context.Background(), "query")
		if got, _ := resp.First(); got.Name != "First" {
			t.Errorf("expected First, got %+v", resp)
		}
		if empty.Calls() != 1 || second.Calls() != 0 {
			t.Errorf("unexpected calls: empty=%d second=%d", empty.Calls(), second.Calls())
		}
	})

	t.Run("finders that do not accept are skipped", func(t *testing.T) {
		picky := tu.NewMockFinder("picky", info("Picky"), nil)
		picky.Accept = func(string) bool { return false }
		f := NewFinders(FindersOpts{}, picky)

		if resp := f.Lookup(context.Background(), "query"); resp.Identified {
			t.Errorf("expected unidentified, got %+v", resp)
		}
		if picky.Calls() != 0 {
			t.Errorf("expected no calls, got %d", picky.Calls())
		}
	})

	t.Run("failures degrade to the empty response", func(t *testing.T) {
		broken := tu.NewMockFinder("broken", models.StreamerInfoResponse{}, shared.ErrAPIRequest)
		f := NewFinders(FindersOpts{}, broken)

		resp := f.Lookup(context.Background(), "query")
		if resp.Identified || resp.Candidates == nil {
			t.Errorf("expected empty response, got %+v", resp)
		}
		if f.Cache().Len() != 0 {
			t.Error("expected failures not to be cached")
		}
	})

	t.Run("a failure before a hit is skipped", func(t *testing.T) {
		broken := tu.NewMockFinder("broken", models.StreamerInfoResponse{}, shared.ErrAPIRequest)
		good := tu.NewMockFinder("good", info("Good"), nil)
		f := NewFinders(FindersOpts{}, broken, good)

		if got, _ := f.Lookup(context.Background(), "q").First(); got.Name != "Good" {
			t.Errorf("expected Good, got %+v", got)
		}
	})

	t.Run("results are cached", func(t *testing.T) {
		mock := tu.NewMockFinder("mock", info("Cached"), nil)
		f := NewFinders(FindersOpts{}, mock)

		f.Lookup(context.Background(), "q")
		f.Lookup(context.Background(), " q ")
		if mock.Calls() != 1 {
			t.Errorf("expected one upstream call, got %d", mock.Calls())
		}
	})

	t.Run("cancelled context fails the lookup", func(t *testing.T) {
		mock := tu.NewMockFinder("mock", info("x"), nil)
		f := NewFinders(FindersOpts{RateLimit: 0.001, Burst: 1}, mock)
		f.Lookup(context.Background(), "a")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if resp := f.Lookup(ctx, "b"); resp.Identified {
			t.Errorf("expected unidentified, got %+v", resp)
		}
		if mock.Calls() != 1 {
			t.Errorf("expected limiter to block the second call, got %d calls", mock.Calls())
		}
	})
}

func TestCache(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }

	t.Run("entries expire after the ttl without access", func(t *testing.T) {
		c := NewCache(4, time.Minute, clock)
		c.Put("a", info("A"))

		now = now.Add(59 * time.Second)
		if _, ok := c.Get("a"); !ok {
			t.Fatal("expected hit before ttl")
		}
		now = now.Add(59 * time.Second)
		if _, ok := c.Get("a"); !ok {
			t.Fatal("expected access to extend the ttl")
		}
		now = now.Add(time.Minute)
		if _, ok := c.Get("a"); ok {
			t.Error("expected entry to expire")
		}
		if c.Len() != 0 {
			t.Errorf("expected expired entry to be dropped, got %d", c.Len())
		}
	})

	t.Run("least recently accessed is evicted", func(t *testing.T) {
		c := NewCache(2, time.Hour, clock)
		c.Put("a", info("A"))
		now = now.Add(time.Second)
		c.Put("b", info("B"))
		now = now.Add(time.Second)
		c.Get("a")
		now = now.Add(time.Second)
		c.Put("c", info("C"))

		if _, ok := c.Get("b"); ok {
			t.Error("expected b to be evicted")
		}
		if _, ok := c.Get("a"); !ok {
			t.Error("expected a to be kept")
		}
		if _, ok := c.Get("c"); !ok {
			t.Error("expected c to be kept")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		c := NewCache(0, 0, nil)
		if c.size != DefaultCacheSize || c.ttl != DefaultCacheTTL {
			t.Errorf("unexpected defaults %d %s", c.size, c.ttl)
		}
		for i := 0; i < DefaultCacheSize+5; i++ {
			c.Put(string(rune('a'+i)), info("x"))
		}
		if c.Len() != DefaultCacheSize {
			t.Errorf("expected %d entries, got %d", DefaultCacheSize, c.Len())
		}
		c.Purge()
		if c.Len() != 0 {
			t.Error("expected purge to empty the cache")
		}
	})
}

func TestFromConfig(t *testing.T) {
	t.Run("no credentials yields an empty chain", func(t *testing.T) {
		f, err := FromConfig(context.Background(), shared.DefaultConfig(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Len() != 0 {
			t.Errorf("expected no finders, got %d", f.Len())
		}
	})

	t.Run("missing credentials are reported", func(t *testing.T) {
		if _, err := NewTwitchFinder(context.Background(), TwitchOpts{ClientID: "id"}); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
		if _, err := NewYouTubeFinder(context.Background(), YouTubeOpts{}); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}
