package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/campusqa"
)

var _ campusqa.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   campusqa.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next campusqa.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract logs the method used and the size of the extracted text.
func (e *LoggingExtractor) Extract(ctx context.Context, url string) (ex *campusqa.Extraction, err error) {
	defer func(begin time.Time) {
		method := campusqa.MethodUnknown
		var n int
		if ex != nil {
			method, n = ex.Method, len(ex.Text)
		}
		e.logger.Info("extract",
			"url", url,
			"method", method.String(),
			"bytes", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, url)
}
