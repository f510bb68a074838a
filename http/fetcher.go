// Package http provides an HTTP-based implementation of camspec.Fetcher
// for product pages that don't require JavaScript rendering.
package http

import (
	"context"
	"fmt"
	"io"
	"maps"
	"net/http"
	"time"

	"github.com/fwojciec/camspec"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultHeaders are sent with every request unless replaced with
// WithHeaders. Manufacturer sites serve bare clients a reduced page.
var DefaultHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
}

// Ensure Fetcher implements camspec.Fetcher at compile time.
var _ camspec.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves product page markup using plain HTTP GET requests.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	headers map[string]string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithHeaders replaces the default request headers. An empty map keeps the
// defaults.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		if len(headers) > 0 {
			f.headers = maps.Clone(headers)
		}
	}
}

// WithClient sets the HTTP client the fetcher copies its transport and
// policies from. The fetcher timeout applies to the copy; c is not modified.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
		headers: maps.Clone(DefaultHeaders),
	}
	for _, opt := range opts {
		opt(f)
	}

	var client http.Client
	if f.client != nil {
		client = *f.client
	}
	client.Timeout = f.timeout
	f.client = &client

	return f
}

// Fetch retrieves the markup of the page at url.
// A response other than 200 OK is an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", camspec.Errorf(camspec.EINVALID, "invalid URL %q: %v", url, err)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", url, err)
	}

	return string(body), nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
