package crawl

import (
	"context"
	"slices"
	"strings"

	"github.com/fwojciec/campusqa"
)

// Frontier configuration.
const (
	// frontierExpectedURLs is the minimum Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the Bloom prefilter false positive rate.
	frontierFalsePositiveRate = 0.01
)

// Config holds the crawl policy.
type Config struct {
	// StartURL seeds the crawl. Its normalized host is the target domain.
	StartURL string

	// IgnoredExtensions are skipped without fetching.
	IgnoredExtensions []string

	// ConfirmExtensions require operator confirmation when Interactive is set.
	ConfirmExtensions []string

	// Interactive enables confirmation prompts.
	Interactive bool

	// HTMLMethod selects static or rendered extraction for HTML pages.
	HTMLMethod campusqa.ExtractionMethod

	// MaxPages stops the crawl after this many URLs. Zero means no limit.
	MaxPages int

	// UseSitemap seeds the frontier from the site's sitemap.
	UseSitemap bool
}

// DefaultIgnoredExtensions lists media, archive and office formats that
// carry no extractable text.
func DefaultIgnoredExtensions() []string {
	return []string{
		".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".ico", ".bmp",
		".mp3", ".wav", ".mp4", ".avi", ".mov", ".webm",
		".zip", ".rar", ".7z", ".tar", ".gz",
		".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	}
}

// DefaultConfirmExtensions lists the formats that prompt before fetching.
func DefaultConfirmExtensions() []string {
	return []string{".pdf"}
}

// Session owns the state of one crawl: its configuration, target domain,
// frontier and persisted log. Construct it with NewSession.
type Session struct {
	Config   Config
	StartURL string
	Domain   string
	Frontier *Frontier

	state   campusqa.CrawlState
	visited int
	resumed bool
}

// NewSession normalizes the start URL, replays the persisted state and
// seeds the frontier. URLs visited by earlier runs are never queued again;
// URLs queued but not visited are re-queued in their original order.
func NewSession(ctx context.Context, cfg Config, state campusqa.CrawlState) (*Session, error) {
	start, err := campusqa.NormalizeURL(cfg.StartURL)
	if err != nil {
		return nil, err
	}
	switch cfg.HTMLMethod {
	case campusqa.MethodUnknown:
		cfg.HTMLMethod = campusqa.MethodStaticHTML
	case campusqa.MethodStaticHTML, campusqa.MethodRenderedHTML:
	default:
		return nil, campusqa.Errorf(campusqa.EINVALID, "unsupported HTML method %q", cfg.HTMLMethod)
	}
	cfg.IgnoredExtensions = normalizeExtensions(cfg.IgnoredExtensions)
	cfg.ConfirmExtensions = normalizeExtensions(cfg.ConfirmExtensions)

	snap, err := state.Load(ctx)
	if err != nil {
		return nil, err
	}

	size := uint(2 * (len(snap.Visited) + len(snap.Queued)))
	s := &Session{
		Config:   cfg,
		StartURL: start,
		Domain:   campusqa.Host(start),
		Frontier: NewFrontier(max(size, frontierExpectedURLs), frontierFalsePositiveRate),
		state:    state,
		resumed:  len(snap.Visited) > 0,
	}

	for _, u := range snap.Visited {
		if !s.Frontier.Seen(u) {
			s.Frontier.Visit(u)
			s.visited++
		}
	}
	if len(snap.Queued) == 0 {
		if err := s.enqueue(ctx, start); err != nil {
			return nil, err
		}
	}
	for _, u := range snap.Pending() {
		s.Frontier.Push(u)
	}
	return s, nil
}

// Resumed reports whether the session continues an earlier crawl.
func (s *Session) Resumed() bool {
	return s.resumed
}

// Visited returns the number of URLs marked visited, including earlier runs.
func (s *Session) Visited() int {
	return s.visited
}

// Discover normalizes links, keeps those on the target domain and queues the
// ones not seen before. It returns the number of newly queued URLs. Only a
// failure to persist the queue log is returned as an error.
func (s *Session) Discover(ctx context.Context, links []string) (int, error) {
	var n int
	for _, link := range links {
		u, err := campusqa.NormalizeURL(link)
		if err != nil {
			continue
		}
		if campusqa.Host(u) != s.Domain {
			continue
		}
		if s.Frontier.Seen(u) {
			continue
		}
		if err := s.enqueue(ctx, u); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// MarkVisited records the URL as processed, durably.
func (s *Session) MarkVisited(ctx context.Context, url string) error {
	s.Frontier.Visit(url)
	if err := s.state.MarkVisited(ctx, url); err != nil {
		return ioError(err, "mark visited %s", url)
	}
	s.visited++
	return nil
}

// Ignored reports whether the URL's extension is skipped without fetching.
func (s *Session) Ignored(url string) bool {
	return slices.Contains(s.Config.IgnoredExtensions, campusqa.Extension(url))
}

// NeedsConfirmation reports whether the URL must be confirmed before fetching.
func (s *Session) NeedsConfirmation(url string) bool {
	return s.Config.Interactive && slices.Contains(s.Config.ConfirmExtensions, campusqa.Extension(url))
}

func (s *Session) enqueue(ctx context.Context, url string) error {
	if !s.Frontier.Push(url) {
		return nil
	}
	if err := s.state.MarkQueued(ctx, url); err != nil {
		return ioError(err, "mark queued %s", url)
	}
	return nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// ioError tags err as EIO unless it already carries that code.
func ioError(err error, format string, args ...any) error {
	if campusqa.ErrorCode(err) == campusqa.EIO {
		return err
	}
	return campusqa.Errorf(campusqa.EIO, format+": %w", append(args, err)...)
}
