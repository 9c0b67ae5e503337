package rag

import (
	"context"
	"strconv"
	"sync"

	"github.com/fwojciec/campusqa"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Indexer defaults.
const (
	DefaultBatchSize   = 100
	DefaultConcurrency = 4
)

// IndexResult summarizes an indexing run.
type IndexResult struct {
	Documents  int
	Duplicates int
	Chunks     int
	Batches    int
}

// Indexer splits the stored corpus into chunks, embeds them and writes them
// to the vector index. Re-indexing the same corpus replaces earlier chunks.
type Indexer struct {
	Documents campusqa.DocumentReader
	Embedder  campusqa.Embedder
	Store     campusqa.VectorIndex

	// Deduplicator, if set, drops near-duplicate documents before chunking.
	Deduplicator campusqa.Deduplicator

	// Zero values select the package and campusqa defaults. A negative
	// ChunkOverlap disables overlap.
	ChunkSize    int
	ChunkOverlap int
	BatchSize    int
	Concurrency  int

	// Progress, if set, is called after each batch is embedded.
	Progress func(done, total int)
}

// Index runs the full pipeline. Embedding requests run concurrently. The
// store is only written once every batch has been embedded, so a failed run
// leaves the previous index untouched.
func (ix *Indexer) Index(ctx context.Context) (*IndexResult, error) {
	docs, err := ix.Documents.ReadDocuments(ctx)
	if err != nil {
		return nil, err
	}

	result := &IndexResult{}
	kept := docs
	if ix.Deduplicator != nil {
		var dups []campusqa.Duplicate
		if kept, dups, err = ix.Deduplicator.Deduplicate(ctx, docs); err != nil {
			return nil, err
		}
		result.Duplicates = len(dups)
	}
	result.Documents = len(kept)

	chunks := ix.split(kept)
	result.Chunks = len(chunks)

	batches := batch(chunks, positiveOr(ix.BatchSize, DefaultBatchSize))
	result.Batches = len(batches)

	if err := ix.embed(ctx, batches); err != nil {
		return nil, err
	}
	if err := ix.store(ctx, docs, kept, chunks); err != nil {
		return nil, err
	}
	return result, nil
}

// embed fills in the embedding of every chunk.
func (ix *Indexer) embed(ctx context.Context, batches [][]*campusqa.Chunk) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(positiveOr(ix.Concurrency, DefaultConcurrency))

	var mu sync.Mutex
	done := 0
	for _, b := range batches {
		g.Go(func() error {
			texts := make([]string, len(b))
			for i, c := range b {
				texts[i] = c.Content
			}
			vecs, err := ix.Embedder.Embed(gctx, texts)
			if err != nil {
				return err
			}
			if len(vecs) != len(b) {
				return campusqa.Errorf(campusqa.EINTERNAL, "embedder returned %d vectors for %d chunks", len(vecs), len(b))
			}
			for i, c := range b {
				c.Embedding = vecs[i]
			}

			mu.Lock()
			defer mu.Unlock()
			done++
			if ix.Progress != nil {
				ix.Progress(done, len(batches))
			}
			return nil
		})
	}
	return g.Wait()
}

// store replaces the chunks of each kept document and clears the documents
// that were dropped as duplicates.
func (ix *Indexer) store(ctx context.Context, docs, kept []*campusqa.Document, chunks []*campusqa.Chunk) error {
	byDoc := make(map[string][]*campusqa.Chunk, len(kept))
	for _, c := range chunks {
		byDoc[c.DocumentID] = append(byDoc[c.DocumentID], c)
	}

	keep := make(map[string]bool, len(kept))
	for _, doc := range kept {
		keep[doc.ID] = true
		if err := ix.Store.ReplaceDocument(ctx, doc.ID, byDoc[doc.ID]); err != nil {
			return err
		}
	}
	for _, doc := range docs {
		if keep[doc.ID] {
			continue
		}
		if err := ix.Store.DeleteDocument(ctx, doc.ID); err != nil {
			return err
		}
	}
	return nil
}

func (ix *Indexer) split(docs []*campusqa.Document) []*campusqa.Chunk {
	size := positiveOr(ix.ChunkSize, campusqa.DefaultChunkSize)
	overlap := ix.ChunkOverlap
	if overlap == 0 {
		overlap = campusqa.DefaultChunkOverlap
	}

	var chunks []*campusqa.Chunk
	for _, doc := range docs {
		for i, text := range campusqa.SplitText(doc.Text, size, overlap) {
			chunks = append(chunks, &campusqa.Chunk{
				ID:         ChunkID(doc.SourceURL, i),
				DocumentID: doc.ID,
				SourceURL:  doc.SourceURL,
				Position:   i,
				Content:    text,
			})
		}
	}
	return chunks
}

// ChunkID derives a stable chunk identifier from the source URL and the
// chunk's position within the document.
func ChunkID(sourceURL string, position int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(sourceURL+"#"+strconv.Itoa(position))).String()
}

func batch(chunks []*campusqa.Chunk, size int) [][]*campusqa.Chunk {
	var out [][]*campusqa.Chunk
	for start := 0; start < len(chunks); start += size {
		out = append(out, chunks[start:min(start+size, len(chunks))])
	}
	return out
}

func positiveOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
