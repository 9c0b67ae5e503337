package http

import (
	"bufio"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/campusqa"
)

// DefaultMaxSitemapURLs caps the number of URLs collected from one site.
// It matches the per-file limit of the sitemap protocol.
const DefaultMaxSitemapURLs = 50000

var _ campusqa.SitemapService = (*SitemapService)(nil)

// SitemapService discovers crawl seeds from a site's robots.txt and sitemaps.
type SitemapService struct {
	client  *http.Client
	maxURLs int
}

// SitemapOption configures a SitemapService.
type SitemapOption func(*SitemapService)

// WithMaxURLs stops discovery once n URLs have been collected.
func WithMaxURLs(n int) SitemapOption {
	return func(s *SitemapService) {
		if n > 0 {
			s.maxURLs = n
		}
	}
}

// NewSitemapService creates a SitemapService. If client is nil,
// http.DefaultClient is used.
func NewSitemapService(client *http.Client, opts ...SitemapOption) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	s := &SitemapService{client: client, maxURLs: DefaultMaxSitemapURLs}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DiscoverURLs returns the page URLs listed in the site's sitemaps, in
// document order without duplicates. Sitemaps named in robots.txt are read
// first; without any, /sitemap.xml is tried. Sitemap indexes are followed
// and gzipped sitemaps are decompressed.
//
// Entries on other hosts are dropped. When baseURL has a path, such as
// https://example.edu/admissions/, only URLs at or below that path are
// kept. A site without a sitemap yields an empty, non-nil slice.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, campusqa.Errorf(campusqa.EINVALID, "invalid base URL %q", baseURL)
	}
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	w := &sitemapWalk{
		svc:      s,
		host:     siteHost(baseURL),
		prefix:   strings.TrimSuffix(base.Path, "/"),
		urls:     []string{},
		sitemaps: make(map[string]bool),
		seen:     make(map[string]bool),
	}

	listed, err := s.robotsSitemaps(ctx, root.JoinPath("robots.txt").String())
	if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if len(listed) == 0 {
		fallback := root.JoinPath("sitemap.xml").String()
		if err := w.visit(ctx, fallback); err != nil {
			// A missing or unreachable default sitemap means there is none.
			if code := campusqa.ErrorCode(err); code == campusqa.ENOTFOUND || code == campusqa.ENETWORK {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				return []string{}, nil
			}
			return nil, err
		}
		return w.urls, nil
	}

	for _, loc := range listed {
		if err := w.visit(ctx, loc); err != nil {
			return nil, err
		}
	}
	return w.urls, nil
}

// sitemapWalk collects page URLs across one discovery run.
type sitemapWalk struct {
	svc    *SitemapService
	host   string
	prefix string

	urls     []string
	sitemaps map[string]bool
	seen     map[string]bool
}

func (w *sitemapWalk) full() bool {
	return len(w.urls) >= w.svc.maxURLs
}

// visit reads one sitemap or sitemap index. Each sitemap is read once, so
// cyclic indexes terminate.
func (w *sitemapWalk) visit(ctx context.Context, loc string) error {
	if w.full() || w.sitemaps[loc] {
		return nil
	}
	w.sitemaps[loc] = true

	root, err := w.svc.fetchXML(ctx, loc)
	if err != nil {
		return err
	}

	switch root.Tag {
	case "sitemapindex":
		for _, child := range locs(root, "sitemap") {
			if err := w.visit(ctx, child); err != nil {
				return err
			}
		}
	case "urlset":
		for _, u := range locs(root, "url") {
			w.add(u)
		}
	default:
		return campusqa.Errorf(campusqa.EEXTRACT, "sitemap %s: unexpected root element <%s>", loc, root.Tag)
	}
	return nil
}

func (w *sitemapWalk) add(u string) {
	if w.full() || w.seen[u] {
		return
	}
	if siteHost(u) != w.host || !underPath(u, w.prefix) {
		return
	}
	w.seen[u] = true
	w.urls = append(w.urls, u)
}

// locs returns the trimmed <loc> text of every child element named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// siteHost compares hosts the way the crawl scopes its domain, so a sitemap
// listing www.example.edu still matches example.edu.
func siteHost(rawURL string) string {
	u, err := campusqa.NormalizeURL(rawURL)
	if err != nil {
		return ""
	}
	return campusqa.Host(u)
}

// underPath reports whether the URL's path is prefix or lies below it.
// /admissions matches /admissions/fees but not /admissions-2019.
func underPath(rawURL, prefix string) bool {
	if prefix == "" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Path == prefix || strings.HasPrefix(u.Path, prefix+"/")
}

// robotsSitemaps returns the Sitemap: directives of robots.txt.
func (s *SitemapService) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	body, _, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sitemaps []string
	sc := bufio.NewScanner(body)
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "sitemap") {
			continue
		}
		if loc := strings.TrimSpace(value); loc != "" {
			sitemaps = append(sitemaps, loc)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, campusqa.Errorf(campusqa.ENETWORK, "read %s: %w", robotsURL, err)
	}
	return sitemaps, nil
}

// fetchXML downloads a sitemap and returns its root element.
func (s *SitemapService) fetchXML(ctx context.Context, loc string) (*etree.Element, error) {
	body, contentType, err := s.get(ctx, loc)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var r io.Reader = body
	if strings.HasSuffix(strings.ToLower(loc), ".gz") || strings.Contains(contentType, "gzip") {
		gz, err := gzip.NewReader(body)
		if err != nil {
			return nil, campusqa.Errorf(campusqa.EEXTRACT, "decompress sitemap %s: %w", loc, err)
		}
		defer gz.Close()
		r = gz
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, campusqa.Errorf(campusqa.EEXTRACT, "parse sitemap %s: %w", loc, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, campusqa.Errorf(campusqa.EEXTRACT, "empty sitemap %s", loc)
	}
	return root, nil
}

// get issues a GET and returns the body of a 200 response. A 404 is
// ENOTFOUND; other failures are ENETWORK.
func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", campusqa.Errorf(campusqa.EINVALID, "request %s: %w", target, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		return nil, "", campusqa.Errorf(campusqa.ENETWORK, "GET %s: %w", target, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp.Body, resp.Header.Get("Content-Type"), nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, "", campusqa.Errorf(campusqa.ENOTFOUND, "%s not found", target)
	default:
		resp.Body.Close()
		return nil, "", campusqa.Errorf(campusqa.ENETWORK, "HTTP %d for %s", resp.StatusCode, target)
	}
}
