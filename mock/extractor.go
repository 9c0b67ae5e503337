package mock

import (
	"context"

	"github.com/fwojciec/campusqa"
)

var _ campusqa.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of campusqa.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, url string) (*campusqa.Extraction, error)
}

func (e *Extractor) Extract(ctx context.Context, url string) (*campusqa.Extraction, error) {
	return e.ExtractFn(ctx, url)
}

var _ campusqa.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of campusqa.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*campusqa.ExtractResult, error)
}

func (e *ContentExtractor) Extract(html string) (*campusqa.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ campusqa.MarkupStripper = (*MarkupStripper)(nil)

// MarkupStripper is a mock implementation of campusqa.MarkupStripper.
type MarkupStripper struct {
	StripFn func(html string) (string, error)
}

func (s *MarkupStripper) Strip(html string) (string, error) {
	return s.StripFn(html)
}

var _ campusqa.PDFParser = (*PDFParser)(nil)

// PDFParser is a mock implementation of campusqa.PDFParser.
type PDFParser struct {
	ParseFn func(data []byte) (string, error)
}

func (p *PDFParser) Parse(data []byte) (string, error) {
	return p.ParseFn(data)
}
