package campusqa

// LinkSelector extracts hyperlinks from HTML.
type LinkSelector interface {
	// ExtractLinks returns the absolute targets of every a[href] in html,
	// resolved against baseURL with fragments removed. mailto:, tel:,
	// javascript: and data: links are dropped. Order follows the document
	// and duplicates are removed.
	ExtractLinks(html string, baseURL string) ([]string, error)
}
