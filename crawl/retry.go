package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/campusqa"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// FetchWithRetryDelays calls fetch, retrying after each delay in turn while
// the error is retryable. An empty delays slice means a single attempt.
// The logger function, if provided, is called for each retry attempt.
func FetchWithRetryDelays[T any](ctx context.Context, url string, fetch func(context.Context, string) (T, error), logger LogFunc, delays []time.Duration) (T, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var zero T
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := fetch(ctx, url)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || !Retryable(err) {
			break
		}

		// Check context before sleeping
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return zero, lastErr
}

// Retryable reports whether a failed fetch may succeed on another attempt.
// Transport and render failures are retryable; malformed content is not.
func Retryable(err error) bool {
	switch campusqa.ErrorCode(err) {
	case campusqa.ENETWORK, campusqa.ERENDER, campusqa.EINTERNAL:
		return true
	}
	return false
}
