package cache

import (
	"context"
	"net/http"
	"time"
)

// --------------------------------------------------------------------------
// Stored Response Type
// --------------------------------------------------------------------------

// StoredResponse is the cached form of a fetched resource. It carries enough
// of the original response to serve it again without a network round trip.
type StoredResponse struct {
	URL        string      // Request identity the entry is keyed by
	Status     string      // e.g. "200 OK"
	StatusCode int         // e.g. 200
	Header     http.Header // Response headers at fetch time
	Body       []byte      // Raw response body
	FetchedAt  time.Time   // When the resource was fetched
}

// --------------------------------------------------------------------------
// Interface Definitions
// --------------------------------------------------------------------------

// ICache is a single named cache: a collection of (request identity ->
// stored response) pairs backed by a host storage engine.
type ICache interface {
	// Name returns the cache name this instance was opened under.
	Name() string
	// Put stores a response keyed by its request identity, replacing any
	// existing entry for the same identity.
	Put(res *StoredResponse) (err error)
	// Match looks up the stored response for a request identity.
	// The boolean return value indicates whether an entry was found.
	Match(url string) (res *StoredResponse, loaded bool, err error)
	// Add is the cache's single-resource fetch-and-store primitive: if no
	// entry exists for the url it fetches the resource and stores the
	// response; an existing entry resolves from cache without a fetch.
	Add(ctx context.Context, url string) (err error)
	// AddAll is the cache's bulk fetch-and-store primitive. It is
	// all-or-nothing: every resource is fetched first, and if any fetch
	// fails no entry in the batch is stored.
	AddAll(ctx context.Context, urls []string) (err error)
	// Len returns the number of entries in the cache.
	Len() (n int, err error)
}

// ICacheStorage is the host's cache storage facility: a registry of named
// caches, each created on first open.
type ICacheStorage interface {
	// Open returns the cache registered under the given name, creating it
	// on first open.
	Open(name string) (c ICache, err error)
	// Has reports whether a cache with the given name has been opened.
	Has(name string) (ok bool)
	// Supported reports whether the cache storage facility is usable.
	Supported() (ok bool)
}

// IFetcher is the network-fetch primitive used to populate caches.
type IFetcher interface {
	// Fetch retrieves the resource at the url and returns its stored form.
	// Responses with a client or server error status fail with an error.
	Fetch(ctx context.Context, url string) (res *StoredResponse, err error)
}
