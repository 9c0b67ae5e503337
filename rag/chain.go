// Package rag implements retrieval-augmented question answering over the
// crawled corpus: building the vector index and answering questions from it.
package rag

import (
	"context"
	"iter"
	"strings"

	"github.com/fwojciec/campusqa"
)

var _ campusqa.Asker = (*Chain)(nil)

// Chain answers questions by retrieving the nearest chunks and streaming a
// grounded answer from the generator.
type Chain struct {
	Embedder  campusqa.Embedder
	Store     campusqa.VectorIndex
	Generator campusqa.Generator

	// TopK is the number of chunks retrieved. Zero means campusqa.DefaultTopK.
	TopK int

	// Tokens and ContextBudget, when both set, cap the retrieved context at
	// ContextBudget tokens. The best match is always kept.
	Tokens        campusqa.TokenCounter
	ContextBudget int
}

// Ask retrieves context for question and returns the sources together with
// a lazy stream of answer fragments terminated by campusqa.EndOfStream.
func (c *Chain) Ask(ctx context.Context, question string) (*campusqa.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, campusqa.Errorf(campusqa.EINVALID, "question required")
	}

	vecs, err := c.Embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, campusqa.Errorf(campusqa.EINTERNAL, "embedder returned %d vectors for 1 question", len(vecs))
	}

	k := c.TopK
	if k <= 0 {
		k = campusqa.DefaultTopK
	}
	results, err := c.Store.Search(ctx, vecs[0], k)
	if err != nil {
		return nil, err
	}

	if results, err = c.fit(ctx, results); err != nil {
		return nil, err
	}

	prompt := BuildPrompt(results, question)
	return &campusqa.Answer{
		Sources:   results,
		Fragments: c.stream(ctx, prompt),
	}, nil
}

// Stream is Ask flattened into a single sequence. Retrieval errors are
// yielded like generation errors.
func (c *Chain) Stream(ctx context.Context, question string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		answer, err := c.Ask(ctx, question)
		if err != nil {
			yield("", err)
			return
		}
		for text, err := range answer.Fragments {
			if !yield(text, err) || err != nil {
				return
			}
		}
	}
}

func (c *Chain) stream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for text, err := range c.Generator.Generate(ctx, prompt) {
			if err != nil {
				yield("", err)
				return
			}
			if !yield(text, nil) {
				return
			}
		}
		yield(campusqa.EndOfStream, nil)
	}
}

// fit drops the lowest ranked results once the context budget is spent.
func (c *Chain) fit(ctx context.Context, results []campusqa.SearchResult) ([]campusqa.SearchResult, error) {
	if c.Tokens == nil || c.ContextBudget <= 0 {
		return results, nil
	}
	used := 0
	for i, r := range results {
		n, err := c.Tokens.CountTokens(ctx, r.Chunk.Content)
		if err != nil {
			return nil, err
		}
		if i > 0 && used+n > c.ContextBudget {
			return results[:i], nil
		}
		used += n
	}
	return results, nil
}

// BuildPrompt renders the retrieved chunks and the question into the
// generation prompt.
func BuildPrompt(results []campusqa.SearchResult, question string) string {
	var sb strings.Builder
	sb.WriteString("Based on the following context, please provide a detailed answer to the question.\n\n")
	sb.WriteString("Context:\n")
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(r.Chunk.Content)
	}
	sb.WriteString("\n\nQuestion:\n")
	sb.WriteString(question)
	sb.WriteString("\n")
	return sb.String()
}
