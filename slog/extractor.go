package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/camspec"
)

// Ensure LoggingExtractor implements camspec.Extractor.
var _ camspec.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging of each extraction.
type LoggingExtractor struct {
	next   camspec.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next camspec.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the section count,
// or the failure carried by the record.
func (e *LoggingExtractor) Extract(markup, sourceURL string) *camspec.Record {
	begin := time.Now()
	rec := e.next.Extract(markup, sourceURL)

	attrs := []any{
		"extractor", e.next.Name(),
		"url", sourceURL,
		"duration", time.Since(begin),
	}
	if rec.Failed() {
		e.logger.Error("extract", append(attrs, "err", rec.Error)...)
		return rec
	}
	e.logger.Info("extract", append(attrs, "sections", rec.Len())...)
	return rec
}

// Name delegates to the wrapped extractor.
func (e *LoggingExtractor) Name() string {
	return e.next.Name()
}
