package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// apiError represents an error from a model provider API that may or may
// not be retryable.
type apiError struct {
	StatusCode int
	Body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// isRetryable returns true for transient errors (rate limit, server errors).
func (e *apiError) isRetryable() bool {
	return e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}

// completeAttempts is the per-client transport retry budget. This is
// independent of the collaborator's own invalid-output retry loop.
const completeAttempts = 2

// retryTransient runs do, retrying once with backoff on transient API
// errors. Non-retryable API errors fail immediately.
func retryTransient(ctx context.Context, provider string, do func() (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt < completeAttempts; attempt++ {
		result, err := do()
		if err == nil {
			return result, nil
		}
		lastErr = err

		var ae *apiError
		if errors.As(err, &ae) && !ae.isRetryable() {
			return "", fmt.Errorf("%s: %w", provider, err)
		}

		if attempt < completeAttempts-1 {
			backoff := time.Duration(attempt+1) * 2 * time.Second
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return "", fmt.Errorf("%s: %w", provider, lastErr)
}
