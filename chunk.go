package campusqa

import (
	"context"
	"strings"
	"unicode"
)

// Default chunking parameters, in characters.
const (
	DefaultChunkSize    = 1500
	DefaultChunkOverlap = 300
)

// Chunk is a window of a document prepared for embedding and retrieval.
type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	SourceURL  string    `json:"sourceUrl"`
	Position   int       `json:"position"`
	Content    string    `json:"content"`
	Embedding  []float32 `json:"embedding,omitempty"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return Errorf(EINVALID, "chunk ID required")
	}
	if c.DocumentID == "" {
		return Errorf(EINVALID, "chunk document ID required")
	}
	if c.Content == "" {
		return Errorf(EINVALID, "chunk content required")
	}
	if len(c.Embedding) == 0 {
		return Errorf(EINVALID, "chunk embedding required")
	}
	return nil
}

// SearchResult represents a search match.
type SearchResult struct {
	Chunk *Chunk  `json:"chunk"`
	Score float32 `json:"score"`
}

// Embedder turns texts into vectors.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorIndex stores embedded chunks and answers nearest-neighbor queries.
type VectorIndex interface {
	// Upsert inserts chunks, replacing any with the same ID.
	Upsert(ctx context.Context, chunks []*Chunk) error

	// ReplaceDocument swaps every stored chunk of a document for chunks.
	// Either all of the change is applied or none of it is.
	ReplaceDocument(ctx context.Context, documentID string, chunks []*Chunk) error

	// Search returns up to k chunks ordered by descending similarity.
	Search(ctx context.Context, vector []float32, k int) ([]SearchResult, error)

	// DeleteDocument removes every chunk of a document.
	DeleteDocument(ctx context.Context, documentID string) error
}

// ChunkFilter represents a filter for listing stored chunks.
type ChunkFilter struct {
	DocumentID *string
	SourceURL  *string

	Offset int
	Limit  int
}

var separators = []string{"\n\n", "\n", " "}

// SplitText splits text into windows of at most size characters where
// consecutive windows share roughly overlap characters. A window ends at the
// last paragraph break in its second half, else the last line break, else
// the last space, else at size. Overlapping windows start on a word
// boundary.
func SplitText(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	r := []rune(text)
	var chunks []string
	start := 0
	for start < len(r) {
		end := start + size
		if end >= len(r) {
			end = len(r)
		} else {
			end = splitPoint(r, start, end)
		}

		if chunk := strings.TrimSpace(string(r[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(r) {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		for next < end && !unicode.IsSpace(r[next-1]) {
			next++
		}
		start = next
	}
	return chunks
}

func splitPoint(r []rune, start, end int) int {
	lo := start + (end-start)/2
	for _, sep := range separators {
		if i := lastIndex(r[lo:end], []rune(sep)); i >= 0 {
			return lo + i + len(sep)
		}
	}
	return end
}

func lastIndex(r, sep []rune) int {
outer:
	for i := len(r) - len(sep); i >= 0; i-- {
		for j := range sep {
			if r[i+j] != sep[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}
