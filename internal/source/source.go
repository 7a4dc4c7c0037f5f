// Package source fetches the current state of a monitored app.
//
// Every fetcher returns a types.FetchResult on success, types.ErrNoData when
// the upstream has nothing to report, or a wrapped error on failure. Fetchers
// never panic and are safe to call repeatedly.
package source

import (
	"context"
	"net/http"
	"time"

	"app-update-bot/internal/types"
)

// DefaultUserAgent mimics a desktop browser; TestFlight serves a different
// page to unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36"

const defaultTimeout = 30 * time.Second

// Fetcher produces the current state of one source.
type Fetcher interface {
	Fetch(ctx context.Context) (types.FetchResult, error)
}

func httpClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: defaultTimeout}
}
