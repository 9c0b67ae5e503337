package mock

import (
	"context"
	"iter"

	"github.com/fwojciec/campusqa"
)

var _ campusqa.Generator = (*Generator)(nil)

// Generator is a mock implementation of campusqa.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, prompt string) iter.Seq2[string, error]
}

func (g *Generator) Generate(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return g.GenerateFn(ctx, prompt)
}

var _ campusqa.Asker = (*Asker)(nil)

// Asker is a mock implementation of campusqa.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string) (*campusqa.Answer, error)
}

func (a *Asker) Ask(ctx context.Context, question string) (*campusqa.Answer, error) {
	return a.AskFn(ctx, question)
}

var _ campusqa.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of campusqa.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return tc.CountTokensFn(ctx, text)
}
