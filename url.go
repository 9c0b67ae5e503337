package campusqa

import (
	"net/url"
	"path"
	"strings"
	"unicode/utf8"
)

// NormalizeURL canonicalizes a URL into the key used for crawl deduplication.
//
// Rules, in order: the scheme is forced to https, a leading "www." is
// stripped from the (lower-cased) host, trailing slashes and a trailing
// "/index.html" are stripped from the path, and the path is percent-decoded.
// Fragments are dropped; query strings are kept verbatim.
//
// NormalizeURL is purely syntactic and idempotent:
// NormalizeURL(NormalizeURL(u)) == NormalizeURL(u).
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", Errorf(EINVALID, "URL %q has no host", rawURL)
	}

	host := strings.ToLower(u.Host)
	for strings.HasPrefix(host, "www.") {
		host = strings.TrimPrefix(host, "www.")
	}
	if host == "" {
		return "", Errorf(EINVALID, "URL %q has no host", rawURL)
	}

	var b strings.Builder
	b.WriteString("https://")
	b.WriteString(host)
	b.WriteString(escapePath(trimPath(u.Path)))
	if u.RawQuery != "" {
		b.WriteString("?")
		b.WriteString(u.RawQuery)
	}
	return b.String(), nil
}

// trimPath strips trailing slashes and "/index.html" until neither applies.
// u.Path is already percent-decoded by url.Parse.
func trimPath(p string) string {
	for {
		trimmed := strings.TrimSuffix(strings.TrimRight(p, "/"), "/index.html")
		if trimmed == p {
			return p
		}
		p = trimmed
	}
}

// escapePath re-escapes only the bytes that would change the meaning of a
// decoded path when the URL is parsed again ('%', '?', '#', whitespace and
// control characters) and bytes that are not valid UTF-8. Everything else
// stays decoded, so normalized URLs are always valid UTF-8 text.
func escapePath(p string) string {
	var b strings.Builder
	for i := 0; i < len(p); {
		r, size := utf8.DecodeRuneInString(p[i:])
		c := p[i]
		switch {
		case r == utf8.RuneError && size == 1:
			escapeByte(&b, c)
		case c == '%' || c == '?' || c == '#' || c <= ' ' || c == 0x7f:
			escapeByte(&b, c)
		default:
			b.WriteString(p[i : i+size])
		}
		i += size
	}
	return b.String()
}

func escapeByte(b *strings.Builder, c byte) {
	const hex = "0123456789ABCDEF"
	b.WriteByte('%')
	b.WriteByte(hex[c>>4])
	b.WriteByte(hex[c&0x0f])
}

// Host returns the host of a URL, or an empty string if it cannot be parsed.
// Applied to normalized URLs it yields the crawl's target domain.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// Extension returns the lower-cased file extension of the URL's path,
// including the leading dot (e.g. ".pdf"), or "" if there is none.
func Extension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(path.Ext(u.Path))
}
