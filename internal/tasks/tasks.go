package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/platform"
	"github.com/k7t3/horzcv/internal/services"
	"github.com/k7t3/horzcv/internal/shared"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers   = 4
	maxWorkers       = 10
	defaultRateLimit = 5.0
)

// IdentityResult is the outcome of resolving one identity.
type IdentityResult struct {
	Identity models.NamedIdentity
	URL      string               // Canonical URL the lookup ran against
	Info     *models.StreamerInfo // First candidate; nil when not identified
	Error    error                // Set when the identity could not be turned into a URL
}

// ResolveResult contains every identity's outcome in input order.
type ResolveResult struct {
	Results    []IdentityResult
	Total      int
	Resolved   int
	Unresolved int
}

// Names returns the identities with resolved display names applied.
//
// Existing names are kept unless overwrite is set.
func (r *ResolveResult) Names(overwrite bool) []models.NamedIdentity {
	return names(r.Results, overwrite)
}

// ResolverOpts configures a [Resolver].
type ResolverOpts struct {
	Workers   int     // Concurrent lookups (default: 4, max: 10)
	RateLimit float64 // Lookups per second (default: 5)
	Logger    *log.Logger
}

// Resolver looks up streamers for identities on a worker pool.
type Resolver struct {
	lookup   services.Lookup
	registry *platform.Registry
	pool     *ants.Pool
	limiter  *rate.Limiter
	logger   *log.Logger
}

// NewResolver creates a resolver. Call [Resolver.Close] to release its workers.
func NewResolver(lookup services.Lookup, registry *platform.Registry, opts ResolverOpts) (*Resolver, error) {
	if lookup == nil {
		return nil, fmt.Errorf("%w: lookup not initialized", shared.ErrServiceUnavailable)
	}
	if registry == nil {
		return nil, fmt.Errorf("%w: platform registry", shared.ErrMissingArgument)
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Workers > maxWorkers {
		opts.Workers = maxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	pool, err := ants.NewPool(opts.Workers, ants.WithPanicHandler(func(p any) {
		logger.Error("resolver worker panicked", "panic", p)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	return &Resolver{
		lookup:   lookup,
		registry: registry,
		pool:     pool,
		limiter:  rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		logger:   logger,
	}, nil
}

// Close releases the worker pool.
func (r *Resolver) Close() {
	r.pool.Release()
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (r *Resolver) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Resolve looks up every identity concurrently.
//
// Per-identity failures are recorded in the results. The returned error is set only when the context ends
// before all lookups were submitted.
func (r *Resolver) Resolve(ctx context.Context, progress chan<- ProgressUpdate, identities []models.NamedIdentity) (*ResolveResult, error) {
	total := len(identities)
	result := &ResolveResult{Results: make([]IdentityResult, total), Total: total}
	for i, identity := range identities {
		result.Results[i] = IdentityResult{Identity: identity}
	}
	r.sendProgress(progress, prepareUpdate(total))

	done := make(chan int, total)
	var wg sync.WaitGroup
	var submitErr error

	for i, identity := range identities {
		url, err := r.canonicalURL(identity.Identity)
		if err != nil {
			result.Results[i].Error = err
			done <- i
			continue
		}
		result.Results[i].URL = url

		if err := r.limiter.Wait(ctx); err != nil {
			submitErr = err
			for j := i; j < total; j++ {
				if result.Results[j].Error == nil {
					result.Results[j].Error = err
				}
			}
			break
		}

		wg.Add(1)
		idx := i
		if err := r.pool.Submit(func() {
			defer wg.Done()
			r.resolveOne(ctx, &result.Results[idx])
			done <- idx
		}); err != nil {
			wg.Done()
			result.Results[idx].Error = fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
			done <- idx
		}
	}

	go func() {
		wg.Wait()
		close(done)
	}()

	step := 0
	for idx := range done {
		step++
		r.sendProgress(progress, resolvedUpdate(step, total, result.Results[idx]))
	}

	for _, res := range result.Results {
		if res.Info != nil {
			result.Resolved++
		} else {
			result.Unresolved++
		}
	}

	r.sendProgress(progress, completeUpdate(result))
	if submitErr != nil {
		return result, fmt.Errorf("resolve interrupted: %w", submitErr)
	}
	return result, nil
}

func (r *Resolver) resolveOne(ctx context.Context, res *IdentityResult) {
	resp := r.lookup.Lookup(ctx, res.URL)
	if info, ok := resp.First(); ok {
		res.Info = &info
	}
	r.logger.Debug("resolved", "identity", res.Identity.Identity, "identified", res.Info != nil)
}

func (r *Resolver) canonicalURL(identity models.Identity) (string, error) {
	s, ok := r.registry.Lookup(identity.Service())
	if !ok {
		return "", fmt.Errorf("%w: %s", shared.ErrNoDetector, identity.Service())
	}
	return s.Detector.Construct(identity.ID())
}
