package minhash

import (
	"context"

	"github.com/fwojciec/campusqa"
)

var _ campusqa.Deduplicator = (*Filter)(nil)

// Filter drops documents whose estimated Jaccard similarity to an earlier
// kept document reaches Threshold.
type Filter struct {
	Threshold float64
	NumPerm   int
	Seed      uint64
}

// NewFilter returns a Filter with the given threshold and permutation count.
// Zero values select the defaults.
func NewFilter(threshold float64, numPerm int) *Filter {
	if threshold <= 0 {
		threshold = campusqa.DefaultDedupThreshold
	}
	if numPerm <= 0 {
		numPerm = campusqa.DefaultNumPerm
	}
	return &Filter{Threshold: threshold, NumPerm: numPerm, Seed: DefaultSeed}
}

// Deduplicate walks docs in order. LSH candidates are confirmed against the
// threshold before a document is dropped; the best confirmed match is
// reported. The index is built fresh on every call.
func (f *Filter) Deduplicate(ctx context.Context, docs []*campusqa.Document) ([]*campusqa.Document, []campusqa.Duplicate, error) {
	if f.Threshold <= 0 || f.Threshold > 1 {
		return nil, nil, campusqa.Errorf(campusqa.EINVALID, "threshold must be in (0, 1], got %v", f.Threshold)
	}
	if f.NumPerm <= 0 {
		return nil, nil, campusqa.Errorf(campusqa.EINVALID, "permutation count must be positive, got %d", f.NumPerm)
	}

	hasher := NewHasher(f.NumPerm, f.Seed)
	index := NewLSH(f.Threshold, f.NumPerm)

	var kept []*campusqa.Document
	var dups []campusqa.Duplicate
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		sig := hasher.Signature(Shingles(doc.Text))

		var matchID string
		var best float64
		for _, id := range index.Query(sig) {
			other, _ := index.Signature(id)
			if sim := sig.Jaccard(other); sim >= f.Threshold && sim > best {
				matchID, best = id, sim
			}
		}
		if matchID != "" {
			dups = append(dups, campusqa.Duplicate{Document: doc, MatchID: matchID, Similarity: best})
			continue
		}

		index.Insert(doc.ID, sig)
		kept = append(kept, doc)
	}
	return kept, dups, nil
}
