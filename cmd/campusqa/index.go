package main

import (
	"fmt"

	"github.com/fwojciec/campusqa"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	deps.Indexer.Progress = func(done, total int) {
		fmt.Fprintf(deps.Stdout, "\rEmbedded %d/%d batches", done, total)
	}

	result, err := deps.Indexer.Index(deps.Ctx)
	if err != nil {
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintf(deps.Stderr, "error: %s\n", campusqa.ErrorMessage(err))
		return err
	}
	if result.Batches > 0 {
		fmt.Fprintln(deps.Stdout)
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d chunks from %d documents (%d near-duplicates skipped)\n",
		result.Chunks, result.Documents, result.Duplicates)
	return nil
}
