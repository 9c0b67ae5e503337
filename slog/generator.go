package slog

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/fwojciec/campusqa"
)

var _ campusqa.Generator = (*LoggingGenerator)(nil)

// LoggingGenerator wraps a Generator and logs each completed stream.
type LoggingGenerator struct {
	next   campusqa.Generator
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator.
func NewLoggingGenerator(next campusqa.Generator, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, logger: logger}
}

// Generate delegates to the wrapped generator. The log line is written once
// the consumer stops iterating.
func (g *LoggingGenerator) Generate(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var (
			fragments int
			size      int
			err       error
		)
		defer func(begin time.Time) {
			g.logger.Info("generate",
				"prompt_bytes", len(prompt),
				"fragments", fragments,
				"bytes", size,
				"duration", time.Since(begin),
				"err", err,
			)
		}(time.Now())

		for text, e := range g.next.Generate(ctx, prompt) {
			if e != nil {
				err = e
			} else {
				fragments++
				size += len(text)
			}
			if !yield(text, e) {
				return
			}
		}
	}
}

var _ campusqa.Embedder = (*LoggingEmbedder)(nil)

// LoggingEmbedder wraps an Embedder with logging.
type LoggingEmbedder struct {
	next   campusqa.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next campusqa.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// Embed logs the batch size and delegates to the wrapped embedder.
func (e *LoggingEmbedder) Embed(ctx context.Context, texts []string) (vecs [][]float32, err error) {
	defer func(begin time.Time) {
		e.logger.Info("embed",
			"texts", len(texts),
			"vectors", len(vecs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Embed(ctx, texts)
}
