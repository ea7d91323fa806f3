// Package cache provides a resource cache: named caches keyed by request
// identity (url) mapping to previously fetched responses, used for offline
// and asset caching.
//
// The package focuses on:
//   - Named caches created on first open (ICacheStorage / ICache)
//   - Fetch-and-store of single resources and batches, with and without
//     overwrite semantics
//   - A pluggable network-fetch primitive (IFetcher, net/http by default)
//   - Pluggable storage through the db.EngineFactory pattern, so cached
//     responses can live in memory or in a persistent engine
//
// Completion semantics: every facade operation returns only after its inner
// fetch and store steps have finished. A caller that awaited Add can rely on
// the response being in the cache, not merely on the cache having been
// opened.
//
// Batch semantics differ by overwrite mode: without overwrite, AddAll is
// all-or-nothing (one failed fetch stores nothing); with overwrite, each url
// is fetched and stored independently and the collected failures come back
// as a joined error.
//
// Usage:
//
//	rc := cache.New(func() db.HostKV { return mem.NewMemEngine(nil) })
//	err := rc.Add(ctx, "assets-v1", "https://example.com/logo.png", false)
//	res, err := rc.Retrieve("assets-v1", "https://example.com/logo.png")
package cache
