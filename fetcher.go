package campusqa

import (
	"context"
	"mime"
	"strings"
)

// Fetcher retrieves HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the URL and returns its HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases held resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// Resource is a downloaded response body.
type Resource struct {
	URL         string
	ContentType string
	Body        []byte
}

// IsPDF reports whether the server declared the body as a PDF.
func (r *Resource) IsPDF() bool {
	return mediaType(r.ContentType) == "application/pdf"
}

// IsHTML reports whether the body is HTML. A missing content type counts as HTML.
func (r *Resource) IsHTML() bool {
	mt := mediaType(r.ContentType)
	return mt == "" || mt == "text/html" || mt == "application/xhtml+xml"
}

// Downloader retrieves raw response bodies together with their content type.
type Downloader interface {
	Download(ctx context.Context, url string) (*Resource, error)
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}
