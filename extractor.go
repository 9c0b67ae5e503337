package campusqa

import "context"

// Extraction is the result of extracting a single URL.
type Extraction struct {
	// Text is the visible text content. Empty when the page yielded nothing.
	Text string

	// HTML is the markup used for link discovery. Empty for PDFs.
	HTML string

	// Method records which extraction variant produced Text.
	Method ExtractionMethod
}

// Extractor turns a URL into text.
//
// Implementations return ENETWORK for transport failures, ERENDER for
// browser failures and render timeouts, and EEXTRACT for content that cannot
// be parsed.
type Extractor interface {
	Extract(ctx context.Context, url string) (*Extraction, error)
}

// ExtractResult holds the main content extracted from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// Text is the main content with boilerplate (nav, footer, sidebar, ads)
	// removed.
	Text string
}

// ContentExtractor is a main-content heuristic over rendered HTML.
type ContentExtractor interface {
	// Extract returns the main content of the page. An empty Text means the
	// heuristic found nothing worth keeping.
	Extract(html string) (*ExtractResult, error)
}

// MarkupStripper reduces HTML to its visible text.
type MarkupStripper interface {
	// Strip removes tags, script and style content and collapses whitespace.
	Strip(html string) (string, error)
}

// PDFParser extracts raw text from PDF bytes.
type PDFParser interface {
	// Parse returns the text of every page, concatenated in page order.
	Parse(data []byte) (string, error)
}
