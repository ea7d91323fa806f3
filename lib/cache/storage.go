package cache

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/ValentinKolb/hKV/lib/db"
	"github.com/ValentinKolb/hKV/lib/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Cache Storage (registry of named caches)
// --------------------------------------------------------------------------

// NewStorage creates a cache storage facility. Each named cache gets its own
// engine instance from the factory on first open.
func NewStorage(factory db.EngineFactory, fetcher IFetcher, log logger.ILogger) ICacheStorage {
	if fetcher == nil {
		fetcher = NewHTTPFetcher(0)
	}
	if log == nil {
		log = logger.GetLogger("cache")
	}
	return &storageImpl{
		factory: factory,
		fetcher: fetcher,
		logger:  log,
		caches:  xsync.NewMapOf[string, ICache](),
	}
}

type storageImpl struct {
	factory db.EngineFactory
	fetcher IFetcher
	logger  logger.ILogger
	caches  *xsync.MapOf[string, ICache]
}

// --------------------------------------------------------------------------
// Interface Methods (docu see cache.ICacheStorage)
// --------------------------------------------------------------------------

func (s *storageImpl) Open(name string) (ICache, error) {
	if name == "" {
		return nil, fmt.Errorf("cache name must not be empty")
	}

	c, loaded := s.caches.LoadOrCompute(name, func() ICache {
		return &cacheImpl{
			name:    name,
			db:      s.factory(),
			fetcher: s.fetcher,
			logger:  s.logger,
		}
	})
	if !loaded {
		s.logger.Debugf("created cache %q on first open", name)
	}
	return c, nil
}

func (s *storageImpl) Has(name string) bool {
	_, ok := s.caches.Load(name)
	return ok
}

func (s *storageImpl) Supported() bool {
	return s.factory != nil
}

// --------------------------------------------------------------------------
// Single Named Cache
// --------------------------------------------------------------------------

// cacheImpl implements one named cache on top of a host storage engine.
// Entries are keyed by request identity (the url) and hold the gob-encoded
// stored response.
type cacheImpl struct {
	name    string
	db      db.HostKV
	fetcher IFetcher
	logger  logger.ILogger
}

// encodeResponse turns a stored response into its engine payload
func encodeResponse(res *StoredResponse) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(res); err != nil {
		return nil, fmt.Errorf("failed to encode response for %s: %w", res.URL, err)
	}
	return buf.Bytes(), nil
}

// decodeResponse turns an engine payload back into a stored response
func decodeResponse(raw []byte) (*StoredResponse, error) {
	var res StoredResponse
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&res); err != nil {
		return nil, fmt.Errorf("failed to decode cached response: %w", err)
	}
	return &res, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see cache.ICache)
// --------------------------------------------------------------------------

func (c *cacheImpl) Name() string {
	return c.name
}

func (c *cacheImpl) Put(res *StoredResponse) error {
	if res == nil || res.URL == "" {
		return fmt.Errorf("response must carry a request identity")
	}

	raw, err := encodeResponse(res)
	if err != nil {
		return err
	}
	if err := c.db.Set(res.URL, raw); err != nil {
		return fmt.Errorf("failed to store response for %s in cache %q: %w", res.URL, c.name, err)
	}
	return nil
}

func (c *cacheImpl) Match(url string) (*StoredResponse, bool, error) {
	raw, loaded, err := c.db.Get(url)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up %s in cache %q: %w", url, c.name, err)
	}
	if !loaded {
		return nil, false, nil
	}

	res, err := decodeResponse(raw)
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

func (c *cacheImpl) Add(ctx context.Context, url string) error {
	// an existing entry resolves from cache without a network round trip
	if _, loaded, err := c.Match(url); err != nil {
		return err
	} else if loaded {
		c.logger.Debugf("cache %q already holds %s", c.name, url)
		return nil
	}

	res, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}
	return c.Put(res)
}

func (c *cacheImpl) AddAll(ctx context.Context, urls []string) error {
	// fetch everything first, store only if every fetch succeeded
	responses := make([]*StoredResponse, 0, len(urls))
	for _, url := range urls {
		res, err := c.fetcher.Fetch(ctx, url)
		if err != nil {
			return fmt.Errorf("batch aborted, nothing stored: %w", err)
		}
		responses = append(responses, res)
	}

	for _, res := range responses {
		if err := c.Put(res); err != nil {
			return err
		}
	}
	return nil
}

func (c *cacheImpl) Len() (int, error) {
	return c.db.Len()
}
