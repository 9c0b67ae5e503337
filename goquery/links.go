// Package goquery implements link discovery and markup stripping on top of
// the goquery HTML library.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/campusqa"
)

// Ensure LinkSelector implements campusqa.LinkSelector at compile time.
var _ campusqa.LinkSelector = (*LinkSelector)(nil)

// LinkSelector extracts every hyperlink from a page.
type LinkSelector struct{}

// NewLinkSelector creates a new LinkSelector.
func NewLinkSelector() *LinkSelector {
	return &LinkSelector{}
}

// ExtractLinks returns the absolute http(s) targets of all a[href]
// elements in document order, deduplicated. Relative links resolve against
// the page's <base href> if present, else baseURL. Fragments are stripped
// and links back to the page itself are dropped. Host scoping is left to
// the caller.
func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, campusqa.Errorf(campusqa.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, campusqa.Errorf(campusqa.EEXTRACT, "failed to parse HTML: %v", err)
	}

	page := *base
	page.Fragment = ""
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			base = base.ResolveReference(ref)
		}
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" || resolved == page.String() {
			return
		}
		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})

	return links, nil
}

// resolveURL resolves a relative URL against a base URL and strips the
// fragment. Returns empty string if the href cannot be parsed or does not
// resolve to an http(s) URL.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
