package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/camspec"
)

// Ensure LoggingExporter implements camspec.Exporter.
var _ camspec.Exporter = (*LoggingExporter)(nil)

// LoggingExporter wraps an Exporter with logging of each written file.
type LoggingExporter struct {
	next   camspec.Exporter
	logger *slog.Logger
}

// NewLoggingExporter creates a new LoggingExporter.
func NewLoggingExporter(next camspec.Exporter, logger *slog.Logger) *LoggingExporter {
	return &LoggingExporter{next: next, logger: logger}
}

// Export delegates to the wrapped exporter and logs the outcome.
func (e *LoggingExporter) Export(r *camspec.Record, path string) error {
	begin := time.Now()
	err := e.next.Export(r, path)
	e.log(err, "export", "path", path, "sections", r.Len(), "duration", time.Since(begin))
	return err
}

// ExportBatch delegates to the wrapped exporter and logs the outcome.
func (e *LoggingExporter) ExportBatch(results []camspec.BatchResult, path string) error {
	begin := time.Now()
	err := e.next.ExportBatch(results, path)
	e.log(err, "export batch", "path", path, "records", len(results), "duration", time.Since(begin))
	return err
}

// Format delegates to the wrapped exporter.
func (e *LoggingExporter) Format() camspec.Format {
	return e.next.Format()
}

func (e *LoggingExporter) log(err error, msg string, attrs ...any) {
	attrs = append([]any{"format", string(e.next.Format())}, attrs...)
	if err != nil {
		e.logger.Error(msg, append(attrs, "err", err)...)
		return
	}
	e.logger.Info(msg, attrs...)
}
