// Package slog provides logging decorators for camspec services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/camspec"
)

// Ensure LoggingFetcher implements camspec.Fetcher.
var _ camspec.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with timing and size logging.
type LoggingFetcher struct {
	next   camspec.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next camspec.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch retrieves the page and logs its size and the time taken.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (markup string, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", url,
			"bytes", len(markup),
			"duration", time.Since(begin),
		}
		if err != nil {
			f.logger.Error("fetch", append(attrs, "err", err)...)
			return
		}
		f.logger.Info("fetch", attrs...)
	}(time.Now())

	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
