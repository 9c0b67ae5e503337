// Package rod renders JavaScript-heavy pages in headless Chrome.
package rod

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/campusqa"
)

// DefaultFetchTimeout bounds a whole page load.
const DefaultFetchTimeout = 30 * time.Second

// DefaultRenderWait bounds how long Fetch waits for the body element.
const DefaultRenderWait = 10 * time.Second

var _ campusqa.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager    *BrowserManager
	timeout    time.Duration
	renderWait time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the overall timeout for a single Fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRenderWait sets how long to wait for the page body to appear.
func WithRenderWait(d time.Duration) Option {
	return func(f *Fetcher) {
		f.renderWait = d
	}
}

// NewFetcher creates a Fetcher that renders pages with the manager's browser.
// The Fetcher owns the manager: closing the Fetcher closes the browser.
func NewFetcher(manager *BrowserManager, opts ...Option) *Fetcher {
	f := &Fetcher{
		manager:    manager,
		timeout:    DefaultFetchTimeout,
		renderWait: DefaultRenderWait,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch navigates to the URL, waits for the body element and returns the
// rendered DOM. Browser failures and timeouts are reported as ERENDER; a
// cancelled context is returned as is.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, release, err := f.manager.Page()
	if err != nil {
		return "", err
	}
	defer release()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", renderError(ctx, "navigate", url, err)
	}

	waitCtx, cancelWait := context.WithTimeout(ctx, f.renderWait)
	defer cancelWait()
	if _, err := page.Context(waitCtx).Element("body"); err != nil {
		return "", renderError(ctx, "wait for body", url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", renderError(ctx, "read DOM", url, err)
	}

	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

func renderError(ctx context.Context, op, url string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	return campusqa.Errorf(campusqa.ERENDER, "%s %s: %w", op, url, err)
}
