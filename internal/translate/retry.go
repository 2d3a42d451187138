package translate

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"
)

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// Retrying retries retryable failures of the wrapped translator.
type Retrying struct {
	next       Translator
	maxRetries int
	backoff    func(int) time.Duration
	log        *slog.Logger
}

// WithRetry wraps t so that up to maxRetries retryable failures are retried.
// maxRetries <= 0 returns t unchanged.
func WithRetry(t Translator, maxRetries int, log *slog.Logger) Translator {
	if maxRetries <= 0 {
		return t
	}
	if log == nil {
		log = slog.Default()
	}
	return &Retrying{next: t, maxRetries: maxRetries, backoff: Backoff, log: log}
}

func (r *Retrying) Translate(ctx context.Context, text, source, target string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			wait := r.backoff(attempt - 1)
			r.log.Warn("retrying translation", "attempt", attempt, "backoff_ms", wait.Milliseconds(), "error", lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(wait):
			}
		}
		out, err := r.next.Translate(ctx, text, source, target)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return "", err
		}
	}
	return "", lastErr
}
