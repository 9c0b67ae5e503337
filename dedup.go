package campusqa

import "context"

// Default near-duplicate filter parameters.
const (
	DefaultDedupThreshold = 0.85
	DefaultNumPerm        = 128
)

// Duplicate records a document dropped as a near-duplicate of an earlier one.
type Duplicate struct {
	Document *Document

	// MatchID is the ID of the kept document it matched.
	MatchID string

	// Similarity is the estimated Jaccard similarity to the match.
	Similarity float64
}

// Deduplicator removes near-duplicate documents.
//
// Documents are considered in input order and the first of a group of
// near-duplicates is kept. Implementations are approximate: estimates may
// produce both false positives and false negatives.
type Deduplicator interface {
	Deduplicate(ctx context.Context, docs []*Document) (kept []*Document, dups []Duplicate, err error)
}
