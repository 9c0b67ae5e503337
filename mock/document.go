package mock

import (
	"context"

	"github.com/fwojciec/campusqa"
)

var _ campusqa.DocumentWriter = (*DocumentWriter)(nil)

// DocumentWriter is a mock implementation of campusqa.DocumentWriter.
type DocumentWriter struct {
	WriteDocumentFn func(ctx context.Context, doc *campusqa.Document) error
}

func (w *DocumentWriter) WriteDocument(ctx context.Context, doc *campusqa.Document) error {
	return w.WriteDocumentFn(ctx, doc)
}

var _ campusqa.DocumentReader = (*DocumentReader)(nil)

// DocumentReader is a mock implementation of campusqa.DocumentReader.
type DocumentReader struct {
	ReadDocumentsFn func(ctx context.Context) ([]*campusqa.Document, error)
}

func (r *DocumentReader) ReadDocuments(ctx context.Context) ([]*campusqa.Document, error) {
	return r.ReadDocumentsFn(ctx)
}

var _ campusqa.Deduplicator = (*Deduplicator)(nil)

// Deduplicator is a mock implementation of campusqa.Deduplicator.
type Deduplicator struct {
	DeduplicateFn func(ctx context.Context, docs []*campusqa.Document) ([]*campusqa.Document, []campusqa.Duplicate, error)
}

func (d *Deduplicator) Deduplicate(ctx context.Context, docs []*campusqa.Document) ([]*campusqa.Document, []campusqa.Duplicate, error) {
	return d.DeduplicateFn(ctx, docs)
}
