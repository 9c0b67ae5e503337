// Package readability extracts article text using go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/campusqa"
	"github.com/go-shiori/go-readability"
)

var _ campusqa.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the title and article text.
func (e *Extractor) Extract(rawHTML string) (*campusqa.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, campusqa.Errorf(campusqa.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, campusqa.Errorf(campusqa.EEXTRACT, "readability: %w", err)
	}

	return &campusqa.ExtractResult{
		Title: article.Title,
		Text:  strings.TrimSpace(article.TextContent),
	}, nil
}
