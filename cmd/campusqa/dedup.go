package main

import (
	"fmt"

	"github.com/fwojciec/campusqa"
)

// Run executes the dedup command. The corpus is left untouched; the index
// command applies the same filter before embedding.
func (c *DedupCmd) Run(deps *Dependencies) error {
	docs, err := deps.Documents.ReadDocuments(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", campusqa.ErrorMessage(err))
		return err
	}

	kept, dups, err := deps.Deduplicator.Deduplicate(deps.Ctx, docs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", campusqa.ErrorMessage(err))
		return err
	}

	if c.List {
		urls := make(map[string]string, len(docs))
		for _, doc := range docs {
			urls[doc.ID] = doc.SourceURL
		}
		for _, d := range dups {
			fmt.Fprintf(deps.Stdout, "%.2f  %s\n      ~ %s\n", d.Similarity, d.Document.SourceURL, urls[d.MatchID])
		}
	}

	fmt.Fprintf(deps.Stdout, "Documents: %d\nNear-duplicates removed: %d\nKept: %d\n", len(docs), len(dups), len(kept))
	return nil
}
