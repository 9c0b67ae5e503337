// Package crawl provides the resumable crawl orchestration. It drives the
// fetch, extract and discover loop over a FIFO frontier, applies the skip
// and confirmation policy, and persists documents and crawl state per URL.
package crawl

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/campusqa"
)

// Crawler processes URLs from a Session's frontier one at a time.
type Crawler struct {
	Extractor   campusqa.Extractor
	Links       campusqa.LinkSelector
	Documents   campusqa.DocumentWriter
	Confirmer   campusqa.Confirmer
	RateLimiter campusqa.DomainLimiter
	Sitemaps    campusqa.SitemapService
}

// Outcome is the terminal state of a single URL.
type Outcome int

const (
	Extracted Outcome = iota
	Empty
	SkippedIgnored
	SkippedDeclined
	Failed
	// Seeded reports sitemap seeding rather than a URL outcome.
	Seeded
)

func (o Outcome) String() string {
	switch o {
	case Extracted:
		return "extracted"
	case Empty:
		return "empty"
	case SkippedIgnored:
		return "skipped-ignored"
	case SkippedDeclined:
		return "skipped-declined"
	case Failed:
		return "failed"
	case Seeded:
		return "seeded"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result holds the outcome of a crawl operation.
type Result struct {
	Extracted   int
	Empty       int
	Skipped     int
	Failed      int
	Bytes       int
	Interrupted bool
}

// ProgressEvent reports the outcome of one URL.
type ProgressEvent struct {
	Outcome Outcome
	URL     string
	Method  campusqa.ExtractionMethod
	Bytes   int
	Err     error

	// Discovered is the number of URLs newly queued from this page.
	Discovered int
	// Queued is the frontier length after the URL was processed.
	Queued int
	// Visited is the total number of visited URLs, including earlier runs.
	Visited int
}

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Run crawls until the frontier is empty, MaxPages URLs have been processed
// or ctx is canceled. Per-URL failures are reported through progress and do
// not stop the crawl. Failing to persist state or documents is returned as
// an EIO error. Cancellation is not an error; it sets Result.Interrupted and
// leaves the in-flight URL unvisited so a later run picks it up.
func (c *Crawler) Run(ctx context.Context, s *Session, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	var result Result

	if s.Config.UseSitemap && c.Sitemaps != nil {
		urls, err := c.Sitemaps.DiscoverURLs(ctx, s.StartURL)
		n, derr := s.Discover(ctx, urls)
		if derr != nil {
			return &result, derr
		}
		progress(ProgressEvent{
			Outcome:    Seeded,
			URL:        s.StartURL,
			Err:        err,
			Discovered: n,
			Queued:     s.Frontier.Len(),
			Visited:    s.Visited(),
		})
	}

	processed := 0
	for {
		if ctx.Err() != nil {
			result.Interrupted = true
			break
		}
		if s.Config.MaxPages > 0 && processed >= s.Config.MaxPages {
			break
		}
		url, ok := s.Frontier.Pop()
		if !ok {
			break
		}
		processed++

		ev, err := c.visit(ctx, s, url)
		if err != nil {
			return &result, err
		}
		if ev == nil {
			result.Interrupted = true
			break
		}

		switch ev.Outcome {
		case Extracted:
			result.Extracted++
			result.Bytes += ev.Bytes
		case Empty:
			result.Empty++
		case SkippedIgnored, SkippedDeclined:
			result.Skipped++
		case Failed:
			result.Failed++
		}
		ev.Queued = s.Frontier.Len()
		ev.Visited = s.Visited()
		progress(*ev)
	}

	return &result, nil
}

// visit drives a single URL to a terminal outcome and marks it visited.
// A nil event with a nil error means ctx was canceled mid-flight.
func (c *Crawler) visit(ctx context.Context, s *Session, url string) (*ProgressEvent, error) {
	ev := &ProgressEvent{URL: url}
	fetch := true

	switch {
	case s.Ignored(url):
		ev.Outcome, fetch = SkippedIgnored, false
	case s.NeedsConfirmation(url) && c.Confirmer != nil:
		ok, err := c.Confirmer.Confirm(ctx, url)
		switch {
		case ctx.Err() != nil:
			return nil, nil
		case err != nil:
			ev.Outcome, ev.Err, fetch = Failed, err, false
		case !ok:
			ev.Outcome, fetch = SkippedDeclined, false
		}
	}

	if fetch {
		if err := c.extract(ctx, s, url, ev); err != nil {
			return nil, err
		}
		if ev.Outcome == Failed && ctx.Err() != nil {
			return nil, nil
		}
	}

	if err := s.MarkVisited(ctx, url); err != nil {
		return nil, err
	}
	return ev, nil
}

// extract fetches the URL, queues its links and writes its document. Only
// persistence failures are returned; extraction failures set ev.
func (c *Crawler) extract(ctx context.Context, s *Session, url string, ev *ProgressEvent) error {
	method := campusqa.Classify(url, s.Config.HTMLMethod)
	if method != campusqa.MethodRenderedHTML && c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, s.Domain); err != nil {
			ev.Outcome, ev.Err = Failed, err
			return nil
		}
	}

	x, err := c.Extractor.Extract(ctx, url)
	if err != nil {
		ev.Outcome, ev.Err = Failed, err
		return nil
	}
	ev.Method = x.Method

	if x.HTML != "" && c.Links != nil {
		links, err := c.Links.ExtractLinks(x.HTML, url)
		if err == nil {
			n, err := s.Discover(ctx, links)
			if err != nil {
				return err
			}
			ev.Discovered = n
		}
	}

	if strings.TrimSpace(x.Text) == "" {
		ev.Outcome = Empty
		return nil
	}

	doc := campusqa.NewDocument(url, x.Text, x.Method)
	if err := c.Documents.WriteDocument(ctx, doc); err != nil {
		return ioError(err, "write document %s", url)
	}
	ev.Outcome = Extracted
	ev.Bytes = len(x.Text)
	return nil
}
