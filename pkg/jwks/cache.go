package jwks

import (
	"context"
	"errors"
	"time"

	"github.com/joeydtaylor/steeze-edge/pkg/middleware/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched key set is served before it is refetched.
const DefaultTTL = 10 * time.Minute

// DefaultFetchTimeout bounds a shared fetch when no WithFetchTimeout is given.
const DefaultFetchTimeout = 5 * time.Second

// Cache serves key sets by source URL, fetching on miss or expiry.
// A Cache is safe for concurrent use and is meant to be built once per
// execution context and shared by every invocation in it.
//
// Entries are always kept in a process-local tier. A shared Store, when
// configured, sits behind it; failures of the shared store degrade to
// local-only caching.
type Cache struct {
	fetcher      Fetcher
	local        *MemoryStore
	shared       Store
	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
	log          *zap.Logger

	// nil when concurrent misses are allowed to fetch independently
	flight *singleflight.Group
}

type Option func(*Cache)

// WithTTL overrides DefaultTTL.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithStore adds a shared store, e.g. Redis, behind the process-local tier.
func WithStore(s Store) Option {
	return func(c *Cache) {
		c.shared = s
	}
}

// WithMaxEntries bounds the process-local tier. Values <= 0 select
// DefaultMaxEntries.
func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		c.local = NewMemoryStore(n)
	}
}

// WithFetchTimeout bounds a coalesced fetch, which runs detached from the
// context of the caller that started it. Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

// WithClock injects the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// WithSingleFlight toggles coalescing of concurrent misses for the same URL
// into one fetch. Enabled by default.
func WithSingleFlight(on bool) Option {
	return func(c *Cache) {
		if on {
			c.flight = &singleflight.Group{}
		} else {
			c.flight = nil
		}
	}
}

// NewCache builds a cache around f. Without options it keeps up to
// DefaultMaxEntries URLs in memory for DefaultTTL each.
func NewCache(f Fetcher, opts ...Option) *Cache {
	c := &Cache{
		fetcher:      f,
		local:        NewMemoryStore(DefaultMaxEntries),
		ttl:          DefaultTTL,
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
		log:          zap.NewNop(),
		flight:       &singleflight.Group{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// TTL reports the configured entry lifetime.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns the key set for url. A valid cached entry is returned without
// I/O; otherwise the set is fetched and the entry replaced. Fetch failures
// are returned as *FetchError or *ParseError and are never cached.
//
// Concurrent misses for one URL share a single fetch. The shared fetch is
// not tied to any one caller: each caller waits only as long as its own ctx
// allows.
func (c *Cache) Get(ctx context.Context, url string) (KeySet, error) {
	if set, ok := c.lookup(ctx, url); ok {
		metrics.KeySetCacheLookup(true)
		return set, nil
	}
	metrics.KeySetCacheLookup(false)

	if c.flight == nil {
		return c.refresh(ctx, url)
	}
	ch := c.flight.DoChan(url, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		return c.refresh(fctx, url)
	})
	select {
	case <-ctx.Done():
		return KeySet{}, &FetchError{URL: url, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return KeySet{}, res.Err
		}
		return res.Val.(KeySet), nil
	}
}

// Clear drops every cached entry.
func (c *Cache) Clear(ctx context.Context) error {
	_ = c.local.Clear(ctx)
	if c.shared == nil {
		return nil
	}
	return c.shared.Clear(ctx)
}

// lookup reads the local tier, then the shared store. Shared hits are copied
// into the local tier.
func (c *Cache) lookup(ctx context.Context, url string) (KeySet, bool) {
	now := c.now()
	if e, _ := c.local.Get(ctx, url); e.Valid(now) {
		return e.Set, true
	}
	if c.shared == nil {
		return KeySet{}, false
	}
	e, err := c.shared.Get(ctx, url)
	if err != nil {
		c.log.Warn("jwks shared store read failed", zap.String("url", url), zap.Error(err))
		return KeySet{}, false
	}
	if !e.Valid(now) {
		return KeySet{}, false
	}
	_ = c.local.Put(ctx, url, e)
	return e.Set, true
}

func (c *Cache) refresh(ctx context.Context, url string) (KeySet, error) {
	set, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			metrics.KeySetFetch(metrics.FetchParseError)
		} else {
			metrics.KeySetFetch(metrics.FetchTransportError)
		}
		return KeySet{}, err
	}
	metrics.KeySetFetch(metrics.FetchOK)

	// build a fresh entry; the previous one is left untouched for readers
	// still holding it
	e := &Entry{Set: set, ExpiresAt: c.now().Add(c.ttl)}
	_ = c.local.Put(ctx, url, e)
	if c.shared != nil {
		if err := c.shared.Put(ctx, url, e); err != nil {
			c.log.Warn("jwks shared store write failed", zap.String("url", url), zap.Error(err))
		}
	}
	c.log.Debug("jwks refreshed",
		zap.String("url", url),
		zap.Strings("kids", set.KeyIDs()),
		zap.Time("expiresAt", e.ExpiresAt),
	)
	return set, nil
}
