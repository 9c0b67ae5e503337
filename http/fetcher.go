// Package http provides the HTTP implementations of campusqa.Fetcher,
// campusqa.Downloader and campusqa.SitemapService for static pages.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/campusqa"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodySize caps how much of a response body is read.
const DefaultMaxBodySize = 32 << 20

// DefaultUserAgent identifies the crawler to the sites it visits.
const DefaultUserAgent = "campusqa/1.0 (+https://github.com/fwojciec/campusqa)"

var (
	_ campusqa.Fetcher    = (*Fetcher)(nil)
	_ campusqa.Downloader = (*Fetcher)(nil)
)

// Fetcher retrieves content from URLs using plain HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxBody   int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize limits the number of bytes read from a response.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBody = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		maxBody:   DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Client returns the underlying HTTP client so other services can share it.
func (f *Fetcher) Client() *http.Client {
	return f.client
}

// Fetch retrieves the body of the given URL as a string.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	res, err := f.Download(ctx, url)
	if err != nil {
		return "", err
	}
	return string(res.Body), nil
}

// Download retrieves the raw body and declared content type of the URL.
// Transport failures and non-200 responses are reported as ENETWORK.
func (f *Fetcher) Download(ctx context.Context, url string) (*campusqa.Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, campusqa.Errorf(campusqa.EINVALID, "create request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, campusqa.Errorf(campusqa.ENETWORK, "GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, campusqa.Errorf(campusqa.ENETWORK, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, campusqa.Errorf(campusqa.ENETWORK, "read body of %s: %w", url, err)
	}

	return &campusqa.Resource{
		URL:         url,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
