package campusqa

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ExtractionMethod identifies how a document's text was produced.
type ExtractionMethod int

// Extraction methods.
const (
	MethodUnknown ExtractionMethod = iota
	MethodPDF
	MethodStaticHTML
	MethodRenderedHTML
)

// String returns the method's identifier.
func (m ExtractionMethod) String() string {
	switch m {
	case MethodPDF:
		return "pdf"
	case MethodStaticHTML:
		return "static"
	case MethodRenderedHTML:
		return "rendered"
	default:
		return "unknown"
	}
}

// ParseExtractionMethod parses the identifier returned by String.
func ParseExtractionMethod(s string) (ExtractionMethod, error) {
	switch s {
	case "pdf":
		return MethodPDF, nil
	case "static":
		return MethodStaticHTML, nil
	case "rendered":
		return MethodRenderedHTML, nil
	}
	return MethodUnknown, Errorf(EINVALID, "unknown extraction method %q", s)
}

// Classify selects the extraction variant for a URL. PDFs are recognized by
// their extension; every other URL uses the configured HTML method.
func Classify(rawURL string, html ExtractionMethod) ExtractionMethod {
	if Extension(rawURL) == ".pdf" {
		return MethodPDF
	}
	return html
}

// Document is the text extracted from a single crawled URL.
type Document struct {
	ID        string           `json:"id"`
	SourceURL string           `json:"sourceUrl"`
	Text      string           `json:"text"`
	Method    ExtractionMethod `json:"method"`
}

// NewDocument returns a Document whose ID is derived from sourceURL.
// sourceURL should already be normalized.
func NewDocument(sourceURL, text string, method ExtractionMethod) *Document {
	return &Document{
		ID:        DocumentID(sourceURL),
		SourceURL: sourceURL,
		Text:      text,
		Method:    method,
	}
}

// DocumentID returns the stable identifier for a canonical URL: the xxHash64
// of the URL as 16 lower-case hex characters.
func DocumentID(canonicalURL string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(canonicalURL))
}

// Filename returns the name the document is stored under.
func (d *Document) Filename() string {
	return d.ID + ".txt"
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.ID == "" {
		return Errorf(EINVALID, "document ID required")
	}
	if d.SourceURL == "" {
		return Errorf(EINVALID, "document source URL required")
	}
	if d.Text == "" {
		return Errorf(EINVALID, "document text required")
	}
	return nil
}

// URLMapping links a stored document file to the URL it was extracted from
// and the method that produced its text.
type URLMapping struct {
	Filename  string
	SourceURL string
	Method    ExtractionMethod
}

// DocumentWriter persists extracted documents.
type DocumentWriter interface {
	// WriteDocument stores the document text and appends its URL mapping.
	// Writing the same document twice must not duplicate the mapping.
	WriteDocument(ctx context.Context, doc *Document) error
}

// DocumentReader loads previously persisted documents.
type DocumentReader interface {
	// ReadDocuments returns all stored documents in mapping order.
	ReadDocuments(ctx context.Context) ([]*Document, error)
}
