package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/shared"
	"golang.org/x/time/rate"
)

// Finder resolves queries for one platform.
type Finder interface {
	// Accepts reports whether query is something this finder can resolve.
	Accepts(query string) bool

	// Find resolves an accepted query. A query that names no streamer yields the empty response.
	Find(ctx context.Context, query string) (models.StreamerInfoResponse, error)

	// Name returns the platform name (e.g., "Twitch", "YouTube")
	Name() string
}

// Lookup resolves a URL or keyword to streamer candidates without failing.
type Lookup interface {
	Lookup(ctx context.Context, query string) models.StreamerInfoResponse
}

// FindersOpts configures [NewFinders].
type FindersOpts struct {
	CacheSize int
	CacheTTL  time.Duration
	RateLimit float64 // Requests per second; non-positive disables limiting
	Burst     int
	Timeout   time.Duration // Per-lookup upstream timeout; zero disables it
	Logger    *log.Logger
	Now       func() time.Time
}

// Finders chains finders behind a cache and a rate limiter.
type Finders struct {
	finders []Finder
	cache   *Cache
	limiter *rate.Limiter
	timeout time.Duration
	logger  *log.Logger
}

// NewFinders creates a chain that tries finders in order.
func NewFinders(opts FindersOpts, finders ...Finder) *Finders {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Finders{
		finders: finders,
		cache:   NewCache(opts.CacheSize, opts.CacheTTL, opts.Now),
		limiter: limiter,
		timeout: opts.Timeout,
		logger:  logger,
	}
}

// Len returns the number of finders in the chain.
func (f *Finders) Len() int { return len(f.finders) }

// Cache exposes the result cache.
func (f *Finders) Cache() *Cache { return f.cache }

// Lookup resolves query. Blank queries and upstream failures yield the empty response.
func (f *Finders) Lookup(ctx context.Context, query string) models.StreamerInfoResponse {
	start := time.Now()
	query = strings.TrimSpace(query)
	if query == "" {
		return models.EmptyStreamerInfoResponse()
	}

	if resp, ok := f.cache.Get(query); ok {
		f.logger.Debug("lookup cache hit", "query", query, "identified", resp.Identified)
		return resp
	}

	resp, err := f.find(ctx, query)
	if err != nil {
		f.logger.Warn("lookup failed", "query", query, "error", err)
		return models.EmptyStreamerInfoResponse()
	}

	f.cache.Put(query, resp)
	f.logger.Info("lookup", "query", query, "identified", resp.Identified, "elapsed", time.Since(start))
	return resp
}

func (f *Finders) find(ctx context.Context, query string) (models.StreamerInfoResponse, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	var failures []error
	for _, finder := range f.finders {
		if !finder.Accepts(query) {
			continue
		}
		if err := f.limiter.Wait(ctx); err != nil {
			return models.StreamerInfoResponse{}, fmt.Errorf("%w: %v", shared.ErrLookupFailed, err)
		}

		resp, err := finder.Find(ctx, query)
		if err != nil {
			f.logger.Warn("finder failed", "finder", finder.Name(), "query", query, "error", err)
			failures = append(failures, err)
			continue
		}
		if !resp.IsEmpty() {
			return resp, nil
		}
	}

	if len(failures) > 0 {
		return models.StreamerInfoResponse{}, fmt.Errorf("%w: %d finder(s) failed: %v", shared.ErrLookupFailed, len(failures), failures[0])
	}
	return models.EmptyStreamerInfoResponse(), nil
}

// FromConfig builds the chain from configured credentials. Platforms without credentials are skipped.
func FromConfig(ctx context.Context, cfg *shared.Config, logger *log.Logger) (*Finders, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var finders []Finder
	twitch, err := NewTwitchFinder(ctx, TwitchOpts{
		ClientID:     cfg.Credentials.Twitch.ClientID,
		ClientSecret: cfg.Credentials.Twitch.ClientSecret,
	})
	switch {
	case err == nil:
		finders = append(finders, twitch)
	case errors.Is(err, shared.ErrMissingCredentials):
		logger.Warn("twitch lookup disabled", "reason", err)
	default:
		return nil, err
	}

	youtube, err := NewYouTubeFinder(ctx, YouTubeOpts{APIKey: cfg.Credentials.YouTube.APIKey})
	switch {
	case err == nil:
		finders = append(finders, youtube)
	case errors.Is(err, shared.ErrMissingCredentials):
		logger.Warn("youtube lookup disabled", "reason", err)
	default:
		return nil, err
	}

	return NewFinders(FindersOpts{
		CacheSize: cfg.Lookup.CacheSize,
		CacheTTL:  cfg.Lookup.CacheTTL,
		RateLimit: cfg.Lookup.RateLimit,
		Burst:     cfg.Lookup.Burst,
		Timeout:   cfg.Lookup.Timeout,
		Logger:    logger,
	}, finders...), nil
}
