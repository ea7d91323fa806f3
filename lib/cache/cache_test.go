package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ValentinKolb/hKV/lib/db"
	"github.com/ValentinKolb/hKV/lib/db/engines/mem"
)

// newTestServer returns a test server that counts requests per path and
// serves "not-found" paths with a 404.
func newTestServer(requests *atomic.Int64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("payload:" + r.URL.Path))
	}))
}

func newTestFacade() *Facade {
	return New(func() db.HostKV { return mem.NewMemEngine(nil) })
}

func TestAddThenRetrieve(t *testing.T) {
	var requests atomic.Int64
	srv := newTestServer(&requests)
	defer srv.Close()

	c := newTestFacade()
	url := srv.URL + "/logo.png"

	if err := c.Add(context.Background(), "assets-v1", url, false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	res, err := c.Retrieve("assets-v1", url)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if res == nil {
		t.Fatalf("Expected a cache hit")
	}
	if string(res.Body) != "payload:/logo.png" {
		t.Errorf("Unexpected body: %s", res.Body)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", res.StatusCode)
	}
	if res.Header.Get("Content-Type") != "text/plain" {
		t.Errorf("Expected stored headers to survive, got %v", res.Header)
	}
}

// TestAddResolvesFromCache verifies the second Add for the same url does not
// hit the network.
func TestAddResolvesFromCache(t *testing.T) {
	var requests atomic.Int64
	srv := newTestServer(&requests)
	defer srv.Close()

	c := newTestFacade()
	url := srv.URL + "/logo.png"

	if err := c.Add(context.Background(), "assets-v1", url, false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := c.Add(context.Background(), "assets-v1", url, false); err != nil {
		t.Fatalf("second Add failed: %v", err)
	}

	if n := requests.Load(); n != 1 {
		t.Errorf("Expected exactly 1 network round trip, got %d", n)
	}
}

// TestAddOverwrite verifies the overwrite path fetches unconditionally and
// replaces the existing entry.
func TestAddOverwrite(t *testing.T) {
	var requests atomic.Int64
	srv := newTestServer(&requests)
	defer srv.Close()

	c := newTestFacade()
	url := srv.URL + "/logo.png"

	if err := c.Add(context.Background(), "assets-v1", url, false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := c.Add(context.Background(), "assets-v1", url, true); err != nil {
		t.Fatalf("overwriting Add failed: %v", err)
	}

	if n := requests.Load(); n != 2 {
		t.Errorf("Expected 2 network round trips with overwrite, got %d", n)
	}

	// still exactly one entry for the url
	cache, err := c.Storage().Open("assets-v1")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	n, err := cache.Len()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 entry after overwrite, got %d", n)
	}
}

func TestRetrieveMiss(t *testing.T) {
	c := newTestFacade()

	res, err := c.Retrieve("assets-v1", "https://example.com/never-added")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if res != nil {
		t.Errorf("Expected nil on a cache miss, got %+v", res)
	}
}

// TestAddAllAllOrNothing verifies the non-overwrite batch stores nothing when
// one resource fails to fetch.
func TestAddAllAllOrNothing(t *testing.T) {
	var requests atomic.Int64
	srv := newTestServer(&requests)
	defer srv.Close()

	c := newTestFacade()
	urls := []string{
		srv.URL + "/a.css",
		srv.URL + "/missing", // 404s
		srv.URL + "/b.js",
	}

	if err := c.AddAll(context.Background(), "assets-v1", urls, false); err == nil {
		t.Fatalf("Expected batch with a failing resource to fail")
	}

	cache, err := c.Storage().Open("assets-v1")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	n, err := cache.Len()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected nothing stored after failed batch, got %d entries", n)
	}
}

// TestAddAllOverwriteIndependent verifies the overwrite batch stores the
// good resources even when one of them fails.
func TestAddAllOverwriteIndependent(t *testing.T) {
	var requests atomic.Int64
	srv := newTestServer(&requests)
	defer srv.Close()

	c := newTestFacade()
	urls := []string{
		srv.URL + "/a.css",
		srv.URL + "/missing", // 404s
		srv.URL + "/b.js",
	}

	err := c.AddAll(context.Background(), "assets-v1", urls, true)
	if err == nil {
		t.Fatalf("Expected the failed resource to be reported")
	}

	for _, url := range []string{urls[0], urls[2]} {
		res, err := c.Retrieve("assets-v1", url)
		if err != nil {
			t.Fatalf("Retrieve failed: %v", err)
		}
		if res == nil {
			t.Errorf("Expected %s to be stored despite the failed sibling", url)
		}
	}

	res, _ := c.Retrieve("assets-v1", urls[1])
	if res != nil {
		t.Errorf("Expected the failed resource to be absent")
	}
}

// TestNamedCachesAreIndependent verifies entries live in the cache they were
// added to.
func TestNamedCachesAreIndependent(t *testing.T) {
	var requests atomic.Int64
	srv := newTestServer(&requests)
	defer srv.Close()

	c := newTestFacade()
	url := srv.URL + "/logo.png"

	if err := c.Add(context.Background(), "assets-v1", url, false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	res, err := c.Retrieve("assets-v2", url)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if res != nil {
		t.Errorf("Expected miss in a different named cache")
	}

	if !c.Storage().Has("assets-v1") {
		t.Errorf("Expected assets-v1 to exist after Add")
	}
}

func TestClearIsNoOp(t *testing.T) {
	var requests atomic.Int64
	srv := newTestServer(&requests)
	defer srv.Close()

	c := newTestFacade()
	url := srv.URL + "/logo.png"

	if err := c.Add(context.Background(), "assets-v1", url, false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := c.Clear("assets-v1"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	res, err := c.Retrieve("assets-v1", url)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if res == nil {
		t.Errorf("Expected Clear to leave the cache untouched")
	}
}

func TestSupported(t *testing.T) {
	c := newTestFacade()
	if !c.Supported() {
		t.Errorf("Expected facade with an engine factory to report supported")
	}
}

func TestFetchErrorStatus(t *testing.T) {
	var requests atomic.Int64
	srv := newTestServer(&requests)
	defer srv.Close()

	f := NewHTTPFetcher(0)
	if _, err := f.Fetch(context.Background(), srv.URL+"/missing"); err == nil {
		t.Errorf("Expected error status to fail the fetch")
	}
}
