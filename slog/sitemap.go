package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/campusqa"
)

var _ campusqa.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService records each sitemap lookup made while seeding a
// crawl. Failures are logged at warn level, since the crawl carries on
// without the sitemap.
type LoggingSitemapService struct {
	next   campusqa.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next campusqa.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, siteURL string) (urls []string, err error) {
	defer func(begin time.Time) {
		attrs := []any{"site", siteURL, "urls", len(urls), "duration", time.Since(begin)}
		if err != nil {
			s.logger.Warn("sitemap", append(attrs, "code", campusqa.ErrorCode(err), "err", err)...)
			return
		}
		s.logger.Info("sitemap", attrs...)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, siteURL)
}
