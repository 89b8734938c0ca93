// Package fetcher turns a URL into rendered page markup.
package fetcher

import (
	"context"
	"fmt"
)

// PageFetcher fetches one URL and returns the rendered HTML of the page.
// Implementations are used serially; a session never issues concurrent
// fetches against the same fetcher.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	Close() error
}

// FetchError reports a failed navigation. A FetchError during a search
// session is terminal for that session; results collected so far are kept.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetcher: fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
