package cache

import (
	"context"
	"errors"
	"time"

	"github.com/ValentinKolb/hKV/lib/db"
	"github.com/ValentinKolb/hKV/lib/logger"
	"github.com/VictoriaMetrics/metrics"
)

// --------------------------------------------------------------------------
// Construction
// --------------------------------------------------------------------------

// Facade exposes the resource-cache operations over a cache storage
// facility: fetch-and-store of single resources and batches, parameterized
// lookup, and a support probe.
//
// All operations complete before they return: a successful Add guarantees
// the fetched response is stored, not merely that the cache was opened.
type Facade struct {
	storage ICacheStorage
	fetcher IFetcher
	logger  logger.ILogger
}

// Option configures a cache facade during construction.
type Option func(*Facade)

// WithFetcher overrides the default HTTP fetcher.
func WithFetcher(f IFetcher) Option {
	return func(c *Facade) {
		c.fetcher = f
	}
}

// WithLogger overrides the default package logger as the diagnostic sink.
func WithLogger(l logger.ILogger) Option {
	return func(c *Facade) {
		c.logger = l
	}
}

// WithFetchTimeout sets the timeout of the default HTTP fetcher.
// Ignored when WithFetcher is also given.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Facade) {
		c.fetcher = NewHTTPFetcher(d)
	}
}

// New creates a resource-cache facade. Each named cache is backed by its own
// engine instance from the factory, created on first open.
func New(factory db.EngineFactory, opts ...Option) *Facade {
	c := &Facade{
		fetcher: NewHTTPFetcher(0),
		logger:  logger.GetLogger("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.storage = NewStorage(factory, c.fetcher, c.logger)
	return c
}

// --------------------------------------------------------------------------
// Facade Operations
// --------------------------------------------------------------------------

// Add opens (creating if absent) the named cache and ensures an entry for
// the url exists. With overwrite the resource is fetched unconditionally and
// the fetched response replaces any existing entry; without it the cache's
// own fetch-and-store primitive runs, so an existing entry resolves from
// cache without a network round trip.
func (c *Facade) Add(ctx context.Context, cacheName, url string, overwrite bool) error {
	cache, err := c.storage.Open(cacheName)
	if err != nil {
		return err
	}

	if !overwrite {
		if err := cache.Add(ctx, url); err != nil {
			c.logger.Errorf("failed to add %s to cache %q: %v", url, cacheName, err)
			return err
		}
		return nil
	}

	res, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		c.logger.Errorf("failed to fetch %s for cache %q: %v", url, cacheName, err)
		return err
	}
	if err := cache.Put(res); err != nil {
		c.logger.Errorf("failed to store %s in cache %q: %v", url, cacheName, err)
		return err
	}
	return nil
}

// AddAll behaves like Add over an ordered sequence of urls. Without
// overwrite it delegates to the cache's all-or-nothing batch primitive.
// With overwrite every url is fetched and stored independently; a failed
// url does not halt the others, and the collected failures come back as a
// joined error.
func (c *Facade) AddAll(ctx context.Context, cacheName string, urls []string, overwrite bool) error {
	cache, err := c.storage.Open(cacheName)
	if err != nil {
		return err
	}

	if !overwrite {
		if err := cache.AddAll(ctx, urls); err != nil {
			c.logger.Errorf("failed to add batch to cache %q: %v", cacheName, err)
			return err
		}
		return nil
	}

	var errs []error
	for _, url := range urls {
		res, err := c.fetcher.Fetch(ctx, url)
		if err != nil {
			c.logger.Errorf("failed to fetch %s for cache %q: %v", url, cacheName, err)
			errs = append(errs, err)
			continue
		}
		if err := cache.Put(res); err != nil {
			c.logger.Errorf("failed to store %s in cache %q: %v", url, cacheName, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Retrieve opens the named cache and looks up the stored response for the
// url. A miss returns (nil, nil).
func (c *Facade) Retrieve(cacheName, url string) (*StoredResponse, error) {
	cache, err := c.storage.Open(cacheName)
	if err != nil {
		return nil, err
	}

	res, loaded, err := cache.Match(url)
	if err != nil {
		return nil, err
	}
	if !loaded {
		metrics.GetOrCreateCounter(`hkv_cache_misses_total`).Inc()
		c.logger.Infof("cache %q holds no entry for %s", cacheName, url)
		return nil, nil
	}

	metrics.GetOrCreateCounter(`hkv_cache_hits_total`).Inc()
	c.logger.Infof("cache %q hit for %s (%s, %d bytes)", cacheName, url, res.Status, len(res.Body))
	return res, nil
}

// Supported reports whether the cache storage facility is usable.
// It emits a diagnostic in both cases and never panics.
func (c *Facade) Supported() bool {
	if c.storage == nil || !c.storage.Supported() {
		c.logger.Errorf("cache storage facility is not available in this environment")
		return false
	}
	c.logger.Infof("cache storage facility is available")
	return true
}

// Clear is deliberately a no-op: caches are only ever grown by this facade,
// never cleared. Kept for contract parity with the store facades.
func (c *Facade) Clear(cacheName string) error {
	c.logger.Warningf("Clear is not implemented for caches, cache %q left untouched", cacheName)
	return nil
}

// Storage exposes the underlying cache storage facility, mainly so callers
// can reach a named cache's primitives directly.
func (c *Facade) Storage() ICacheStorage {
	return c.storage
}
