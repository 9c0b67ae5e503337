// Package trafilatura provides the heuristic main-content extractor used for
// rendered pages.
package trafilatura

import (
	"strings"

	"github.com/fwojciec/campusqa"
	"github.com/markusmobius/go-trafilatura"
)

var _ campusqa.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to pull the article text out of a page,
// dropping navigation, footers and other boilerplate.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and main text. A page trafilatura cannot
// find content in yields an EEXTRACT error; callers fall back to stripping.
func (e *Extractor) Extract(rawHTML string) (*campusqa.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, campusqa.Errorf(campusqa.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, campusqa.Errorf(campusqa.EEXTRACT, "trafilatura: %w", err)
	}

	return &campusqa.ExtractResult{
		Title: result.Metadata.Title,
		Text:  strings.TrimSpace(result.ContentText),
	}, nil
}
