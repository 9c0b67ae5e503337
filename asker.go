package campusqa

import (
	"context"
	"iter"
)

// EndOfStream is yielded after the last fragment of a streamed answer.
const EndOfStream = "<END_OF_STREAM>"

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 5

// Generator produces text from a prompt.
type Generator interface {
	// Generate returns a lazy, finite sequence of text fragments. The
	// sequence is not restartable. A non-nil error ends it.
	Generate(ctx context.Context, prompt string) iter.Seq2[string, error]
}

// Answer is a streamed answer to a question.
type Answer struct {
	// Sources are the chunks the answer was grounded on.
	Sources []SearchResult

	// Fragments yields the answer text followed by EndOfStream.
	Fragments iter.Seq2[string, error]
}

// Asker answers natural language questions over the indexed corpus.
type Asker interface {
	// Ask retrieves context for the question and starts generating an
	// answer. Returns EINVALID for an empty question.
	Ask(ctx context.Context, question string) (*Answer, error)
}
