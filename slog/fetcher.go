// Package slog provides logging decorators for campusqa services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/campusqa"
)

var _ campusqa.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   campusqa.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next campusqa.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

var _ campusqa.Downloader = (*LoggingDownloader)(nil)

// LoggingDownloader wraps a Downloader with logging.
type LoggingDownloader struct {
	next   campusqa.Downloader
	logger *slog.Logger
}

// NewLoggingDownloader creates a new LoggingDownloader.
func NewLoggingDownloader(next campusqa.Downloader, logger *slog.Logger) *LoggingDownloader {
	return &LoggingDownloader{next: next, logger: logger}
}

// Download logs the URL, content type and size of the response.
func (d *LoggingDownloader) Download(ctx context.Context, url string) (res *campusqa.Resource, err error) {
	defer func(begin time.Time) {
		var contentType string
		var n int
		if res != nil {
			contentType, n = res.ContentType, len(res.Body)
		}
		d.logger.Info("download",
			"url", url,
			"content_type", contentType,
			"bytes", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Download(ctx, url)
}
