package scrape

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/camspec"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// Default retry policy: three attempts, waiting 2s then 4s.
const (
	DefaultAttempts   = 3
	DefaultRetryDelay = 2 * time.Second
)

// DefaultRetryDelays returns the backoff delays between fetch attempts:
// 2s, then 4s, for three attempts in total.
func DefaultRetryDelays() []time.Duration {
	return BackoffDelays(DefaultAttempts, DefaultRetryDelay)
}

// BackoffDelays returns the delays between attempts fetch attempts, doubling
// from base. A single attempt has no delays.
func BackoffDelays(attempts int, base time.Duration) []time.Duration {
	if attempts <= 1 {
		return []time.Duration{}
	}
	delays := make([]time.Duration, attempts-1)
	for i := range delays {
		delays[i] = base << i
	}
	return delays
}

// Permanent marks err as one that retrying cannot fix. FetchWithRetry
// returns the wrapped error at once.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// FetchWithRetry fetches url, retrying after each delay in delays.
// A blank body counts as a failed attempt; an error marked Permanent ends
// the attempts. The logger, if provided, receives one line per retry.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		markup, err := fetch(ctx, url)
		if err == nil && strings.TrimSpace(markup) == "" {
			err = camspec.Errorf(camspec.ENOTFOUND, "empty response from %s", url)
		}
		if err == nil {
			return markup, nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return "", perm.err
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		if logger != nil {
			logger.Info("retrying fetch", "url", url, "attempt", attempt+2, "delay", delays[attempt], "error", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}
