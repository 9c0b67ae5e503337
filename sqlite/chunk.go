package sqlite

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/fwojciec/campusqa"
)

var _ campusqa.VectorIndex = (*ChunkStore)(nil)

// ChunkStore implements campusqa.VectorIndex using SQLite. Embeddings are
// stored as float32 blobs and searched by exhaustive cosine similarity.
type ChunkStore struct {
	db  *DB
	now func() time.Time
}

// NewChunkStore creates a new ChunkStore.
func NewChunkStore(db *DB) *ChunkStore {
	return &ChunkStore{db: db, now: time.Now}
}

// Upsert writes chunks in a single transaction, replacing rows with the
// same ID. All chunks must have embeddings of the same dimension.
func (s *ChunkStore) Upsert(ctx context.Context, chunks []*campusqa.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	return s.write(ctx, "", chunks)
}

// ReplaceDocument deletes the document's chunks and writes chunks in their
// place within one transaction, so a failure leaves the old chunks intact.
// An empty chunks slice only deletes.
func (s *ChunkStore) ReplaceDocument(ctx context.Context, documentID string, chunks []*campusqa.Chunk) error {
	if documentID == "" {
		return campusqa.Errorf(campusqa.EINVALID, "document ID required")
	}
	for _, c := range chunks {
		if c.DocumentID != documentID {
			return campusqa.Errorf(campusqa.EINVALID, "chunk %s belongs to document %s, not %s", c.ID, c.DocumentID, documentID)
		}
	}
	return s.write(ctx, documentID, chunks)
}

// write validates chunks and stores them in one transaction, first clearing
// documentID when it is set.
func (s *ChunkStore) write(ctx context.Context, documentID string, chunks []*campusqa.Chunk) error {
	var dims int
	if len(chunks) > 0 {
		dims = len(chunks[0].Embedding)
	}
	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			return err
		}
		if len(c.Embedding) != dims {
			return campusqa.Errorf(campusqa.EINVALID, "chunk %s has %d dimensions, batch has %d", c.ID, len(c.Embedding), dims)
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if documentID != "" {
		if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
			return err
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, source_url, position, content, dimensions, embedding, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			source_url = excluded.source_url,
			position = excluded.position,
			content = excluded.content,
			dimensions = excluded.dimensions,
			embedding = excluded.embedding,
			indexed_at = excluded.indexed_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	indexedAt := s.now().UTC().Format(time.RFC3339)
	for _, c := range chunks {
		if _, err := stmt.ExecContext(ctx, c.ID, c.DocumentID, c.SourceURL, c.Position, c.Content,
			len(c.Embedding), encodeEmbedding(c.Embedding), indexedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Search scores every stored chunk of matching dimension against vector
// and returns the k best, most similar first.
func (s *ChunkStore) Search(ctx context.Context, vector []float32, k int) ([]campusqa.SearchResult, error) {
	if len(vector) == 0 {
		return nil, campusqa.Errorf(campusqa.EINVALID, "query vector required")
	}
	if k <= 0 {
		return nil, campusqa.Errorf(campusqa.EINVALID, "k must be positive")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, source_url, position, content, embedding
		FROM chunks
		WHERE dimensions = ?
		ORDER BY rowid
	`, len(vector))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []campusqa.SearchResult
	for rows.Next() {
		var c campusqa.Chunk
		var blob []byte
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.SourceURL, &c.Position, &c.Content, &blob); err != nil {
			return nil, err
		}
		if c.Embedding, err = decodeEmbedding(blob); err != nil {
			return nil, err
		}
		results = append(results, campusqa.SearchResult{
			Chunk: &c,
			Score: cosine(vector, c.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(results, func(a, b campusqa.SearchResult) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// DeleteDocument removes every chunk of a document. Deleting a document
// with no chunks is not an error.
func (s *ChunkStore) DeleteDocument(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID)
	return err
}

// FindChunks retrieves chunks matching the filter ordered by document and
// position. Embeddings are not loaded.
func (s *ChunkStore) FindChunks(ctx context.Context, filter campusqa.ChunkFilter) ([]*campusqa.Chunk, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, document_id, source_url, position, content FROM chunks WHERE 1=1")

	if filter.DocumentID != nil {
		query.WriteString(" AND document_id = ?")
		args = append(args, *filter.DocumentID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}

	query.WriteString(" ORDER BY document_id ASC, position ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*campusqa.Chunk
	for rows.Next() {
		var c campusqa.Chunk
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.SourceURL, &c.Position, &c.Content); err != nil {
			return nil, err
		}
		chunks = append(chunks, &c)
	}
	return chunks, rows.Err()
}

// Count returns the number of stored chunks.
func (s *ChunkStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n)
	return n, err
}
