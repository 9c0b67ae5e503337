package mock

import (
	"context"

	"github.com/fwojciec/campusqa"
)

var _ campusqa.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of campusqa.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, texts []string) ([][]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedFn(ctx, texts)
}

var _ campusqa.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a mock implementation of campusqa.VectorIndex.
type VectorIndex struct {
	UpsertFn          func(ctx context.Context, chunks []*campusqa.Chunk) error
	ReplaceDocumentFn func(ctx context.Context, documentID string, chunks []*campusqa.Chunk) error
	SearchFn          func(ctx context.Context, vector []float32, k int) ([]campusqa.SearchResult, error)
	DeleteDocumentFn  func(ctx context.Context, documentID string) error
}

func (v *VectorIndex) Upsert(ctx context.Context, chunks []*campusqa.Chunk) error {
	return v.UpsertFn(ctx, chunks)
}

func (v *VectorIndex) ReplaceDocument(ctx context.Context, documentID string, chunks []*campusqa.Chunk) error {
	return v.ReplaceDocumentFn(ctx, documentID, chunks)
}

func (v *VectorIndex) Search(ctx context.Context, vector []float32, k int) ([]campusqa.SearchResult, error) {
	return v.SearchFn(ctx, vector, k)
}

func (v *VectorIndex) DeleteDocument(ctx context.Context, documentID string) error {
	return v.DeleteDocumentFn(ctx, documentID)
}
