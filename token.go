package campusqa

import "context"

// TokenCounter counts model tokens. The RAG chain uses it to keep the
// retrieved context inside a prompt budget.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
