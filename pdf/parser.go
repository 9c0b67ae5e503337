// Package pdf extracts text from PDF documents.
package pdf

import (
	"bytes"
	"strings"

	"github.com/fwojciec/campusqa"
	"github.com/ledongthuc/pdf"
)

var _ campusqa.PDFParser = (*Parser)(nil)

// Parser extracts plain text from PDF bytes with ledongthuc/pdf.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse returns the text of every page joined by newlines in page order.
// Pages without content are skipped. Malformed input yields EEXTRACT.
func (p *Parser) Parse(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", campusqa.Errorf(campusqa.EEXTRACT, "empty PDF")
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", campusqa.Errorf(campusqa.EEXTRACT, "parse PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", campusqa.Errorf(campusqa.EEXTRACT, "open PDF: %w", err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		s, err := page.GetPlainText(nil)
		if err != nil {
			return "", campusqa.Errorf(campusqa.EEXTRACT, "page %d: %w", i, err)
		}
		if s = strings.TrimSpace(s); s != "" {
			pages = append(pages, s)
		}
	}
	return strings.Join(pages, "\n"), nil
}
