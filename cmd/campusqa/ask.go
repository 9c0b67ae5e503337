package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/fwojciec/campusqa"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	answer, err := deps.Asker.Ask(deps.Ctx, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", campusqa.ErrorMessage(err))
		return err
	}

	if err := writeAnswer(deps.Stdout, answer); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", campusqa.ErrorMessage(err))
		return err
	}
	if c.Sources {
		writeSources(deps.Stdout, answer.Sources)
	}
	return nil
}

// writeAnswer streams the answer fragments to w as they arrive.
func writeAnswer(w io.Writer, answer *campusqa.Answer) error {
	for text, err := range answer.Fragments {
		if err != nil {
			fmt.Fprintln(w)
			return err
		}
		if text == campusqa.EndOfStream {
			break
		}
		fmt.Fprint(w, text)
	}
	fmt.Fprintln(w)
	return nil
}

// writeSources prints each distinct source URL once, best match first.
func writeSources(w io.Writer, results []campusqa.SearchResult) {
	if len(results) == 0 {
		return
	}
	var urls []string
	for _, r := range results {
		if !slices.Contains(urls, r.Chunk.SourceURL) {
			urls = append(urls, r.Chunk.SourceURL)
		}
	}
	fmt.Fprintln(w, "\nSources:")
	for _, u := range urls {
		fmt.Fprintf(w, "  %s\n", u)
	}
}
