package gemini

import (
	"context"

	"github.com/fwojciec/campusqa"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// DefaultTokenizerModel names the tokenizer used when none is given. All
// Gemini 2.x models share its vocabulary.
const DefaultTokenizerModel = "gemini-2.0-flash"

var _ campusqa.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens offline using the Gemini tokenizer.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a new TokenCounter for the given model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = DefaultTokenizerModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, campusqa.Errorf(campusqa.EINVALID, "tokenizer for %s: %w", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the number of tokens in the given text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	result, err := tc.tok.CountTokens(genai.Text(text), nil)
	if err != nil {
		return 0, campusqa.Errorf(campusqa.EINTERNAL, "count tokens: %w", err)
	}

	return int(result.TotalTokens), nil
}
