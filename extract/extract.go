// Package extract implements the content extraction variants and the router
// that picks between them.
package extract

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/campusqa"
	"github.com/fwojciec/campusqa/crawl"
)

var (
	_ campusqa.Extractor = (*PDF)(nil)
	_ campusqa.Extractor = (*Static)(nil)
	_ campusqa.Extractor = (*Rendered)(nil)
	_ campusqa.Extractor = (*Router)(nil)
)

// PDF downloads a document and extracts its text page by page.
type PDF struct {
	Downloader campusqa.Downloader
	Parser     campusqa.PDFParser

	// RetryDelays are waited between attempts. Empty means no retry.
	RetryDelays []time.Duration
	Log         crawl.LogFunc
}

// Extract downloads url and parses it as a PDF.
func (p *PDF) Extract(ctx context.Context, url string) (*campusqa.Extraction, error) {
	res, err := crawl.FetchWithRetryDelays(ctx, url, p.Downloader.Download, p.Log, p.RetryDelays)
	if err != nil {
		return nil, err
	}
	return parsePDF(p.Parser, url, res.Body)
}

// Static fetches a page over plain HTTP and strips its markup. Responses
// declared as application/pdf are handed to Parser instead.
type Static struct {
	Downloader campusqa.Downloader
	Stripper   campusqa.MarkupStripper
	Parser     campusqa.PDFParser

	RetryDelays []time.Duration
	Log         crawl.LogFunc
}

// Extract downloads url and returns its visible text along with the HTML
// used for link discovery.
func (s *Static) Extract(ctx context.Context, url string) (*campusqa.Extraction, error) {
	res, err := crawl.FetchWithRetryDelays(ctx, url, s.Downloader.Download, s.Log, s.RetryDelays)
	if err != nil {
		return nil, err
	}

	switch {
	case res.IsPDF() && s.Parser != nil:
		return parsePDF(s.Parser, url, res.Body)
	case !res.IsHTML():
		// Images, archives and the like carry no text or links.
		return &campusqa.Extraction{Method: campusqa.MethodStaticHTML}, nil
	}

	html := string(res.Body)
	text, err := s.Stripper.Strip(html)
	if err != nil {
		return nil, campusqa.Errorf(campusqa.EEXTRACT, "strip %s: %w", url, err)
	}
	return &campusqa.Extraction{
		Text:   text,
		HTML:   html,
		Method: campusqa.MethodStaticHTML,
	}, nil
}

// Rendered loads a page in a browser and applies a main-content heuristic
// to the rendered DOM. When the heuristic yields nothing the whole page is
// stripped instead.
type Rendered struct {
	Fetcher  campusqa.Fetcher
	Content  campusqa.ContentExtractor
	Stripper campusqa.MarkupStripper

	RetryDelays []time.Duration
	Log         crawl.LogFunc
}

// Extract renders url and returns its main text and the rendered HTML.
func (r *Rendered) Extract(ctx context.Context, url string) (*campusqa.Extraction, error) {
	html, err := crawl.FetchWithRetryDelays(ctx, url, r.Fetcher.Fetch, r.Log, r.RetryDelays)
	if err != nil {
		return nil, err
	}

	var text string
	if r.Content != nil {
		res, err := r.Content.Extract(html)
		if err == nil {
			text = res.Text
		} else if r.Log != nil {
			r.Log("content heuristic failed for %s, stripping page: %v", url, err)
		}
	}

	if strings.TrimSpace(text) == "" {
		text, err = r.Stripper.Strip(html)
		if err != nil {
			return nil, campusqa.Errorf(campusqa.EEXTRACT, "strip %s: %w", url, err)
		}
	}

	return &campusqa.Extraction{
		Text:   strings.TrimSpace(text),
		HTML:   html,
		Method: campusqa.MethodRenderedHTML,
	}, nil
}

// Router dispatches each URL to the variant chosen by campusqa.Classify.
type Router struct {
	// HTMLMethod is MethodStaticHTML or MethodRenderedHTML.
	HTMLMethod campusqa.ExtractionMethod

	PDF      campusqa.Extractor
	Static   campusqa.Extractor
	Rendered campusqa.Extractor
}

// Extract implements campusqa.Extractor.
func (r *Router) Extract(ctx context.Context, url string) (*campusqa.Extraction, error) {
	var next campusqa.Extractor
	method := campusqa.Classify(url, r.HTMLMethod)
	switch method {
	case campusqa.MethodPDF:
		next = r.PDF
	case campusqa.MethodStaticHTML:
		next = r.Static
	case campusqa.MethodRenderedHTML:
		next = r.Rendered
	}
	if next == nil {
		return nil, campusqa.Errorf(campusqa.EINVALID, "no extractor configured for method %s", method)
	}
	return next.Extract(ctx, url)
}

func parsePDF(parser campusqa.PDFParser, url string, body []byte) (*campusqa.Extraction, error) {
	text, err := parser.Parse(body)
	if err != nil {
		if campusqa.ErrorCode(err) == campusqa.EEXTRACT {
			return nil, err
		}
		return nil, campusqa.Errorf(campusqa.EEXTRACT, "parse PDF %s: %w", url, err)
	}
	return &campusqa.Extraction{
		Text:   strings.TrimSpace(text),
		Method: campusqa.MethodPDF,
	}, nil
}
