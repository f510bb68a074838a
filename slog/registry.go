package slog

import (
	"log/slog"

	"github.com/fwojciec/camspec"
)

// Ensure LoggingRegistry implements camspec.ExtractorRegistry.
var _ camspec.ExtractorRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps an ExtractorRegistry with logging of manufacturer
// detection. Extractors it hands out are wrapped in LoggingExtractor.
type LoggingRegistry struct {
	next   camspec.ExtractorRegistry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next camspec.ExtractorRegistry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// Detect delegates to the wrapped registry and logs the outcome.
func (r *LoggingRegistry) Detect(url string) camspec.Manufacturer {
	m := r.next.Detect(url)
	name := string(m)
	if m == camspec.ManufacturerUnknown {
		name = "(unknown)"
	}
	r.logger.Info("manufacturer detection",
		"url", url,
		"manufacturer", name,
	)
	return m
}

// Get returns the wrapped registry's extractor decorated with logging.
func (r *LoggingRegistry) Get(m camspec.Manufacturer) camspec.Extractor {
	e := r.next.Get(m)
	if e == nil {
		return nil
	}
	return NewLoggingExtractor(e, r.logger)
}

// Register delegates to the wrapped registry.
func (r *LoggingRegistry) Register(m camspec.Manufacturer, e camspec.Extractor) {
	r.next.Register(m, e)
}

// List delegates to the wrapped registry.
func (r *LoggingRegistry) List() []camspec.Manufacturer {
	return r.next.List()
}
