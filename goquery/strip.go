package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/campusqa"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Stripper implements campusqa.MarkupStripper at compile time.
var _ campusqa.MarkupStripper = (*Stripper)(nil)

// invisible matches elements whose content is never rendered as text.
const invisible = "script, style, noscript, template, svg, iframe, object, [hidden]"

// blocks start and end a line of text.
var blocks = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Caption: true, atom.Dd: true, atom.Div: true, atom.Dl: true,
	atom.Dt: true, atom.Figcaption: true, atom.Figure: true, atom.Footer: true,
	atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Table: true, atom.Title: true, atom.Tr: true, atom.Ul: true,
}

// Stripper reduces HTML to its visible text.
type Stripper struct{}

// NewStripper creates a new Stripper.
func NewStripper() *Stripper {
	return &Stripper{}
}

// Strip removes markup and non-visible elements. Block elements become line
// breaks, table cells are separated by spaces, runs of whitespace collapse
// to one space and blank lines are dropped.
func (s *Stripper) Strip(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", campusqa.Errorf(campusqa.EEXTRACT, "failed to parse HTML: %v", err)
	}
	doc.Find(invisible).Remove()

	var b strings.Builder
	for _, n := range doc.Nodes {
		writeText(&b, n)
	}
	return collapse(b.String()), nil
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	}

	block := n.Type == html.ElementNode && blocks[n.DataAtom]
	cell := n.Type == html.ElementNode && (n.DataAtom == atom.Td || n.DataAtom == atom.Th)
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	switch {
	case block:
		b.WriteByte('\n')
	case cell:
		b.WriteByte(' ')
	}
}

func collapse(text string) string {
	var lines []string
	for line := range strings.Lines(text) {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, strings.Join(fields, " "))
		}
	}
	return strings.Join(lines, "\n")
}
