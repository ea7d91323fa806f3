package cache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// defaultFetchTimeout bounds a single fetch when the caller's context
// carries no deadline of its own.
const defaultFetchTimeout = 30 * time.Second

// NewHTTPFetcher creates the default IFetcher on top of net/http.
// A timeout of 0 falls back to defaultFetchTimeout.
func NewHTTPFetcher(timeout time.Duration) IFetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &httpFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// httpFetcher implements the IFetcher interface using net/http
type httpFetcher struct {
	client *http.Client
}

// --------------------------------------------------------------------------
// Interface Methods (docu see cache.IFetcher)
// --------------------------------------------------------------------------

func (f *httpFetcher) Fetch(ctx context.Context, url string) (*StoredResponse, error) {
	metrics.GetOrCreateCounter(`hkv_cache_fetches_total`).Inc()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch of %s returned status %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", url, err)
	}

	return &StoredResponse{
		URL:        url,
		Status:     resp.Status,
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
		FetchedAt:  time.Now(),
	}, nil
}
