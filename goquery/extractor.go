package goquery

import (
	"log/slog"

	"github.com/fwojciec/camspec"
)

// Option configures an extractor.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets the logger extraction diagnostics go to.
// Extractors are silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func newConfig(opts []Option) config {
	c := config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// recoverExtraction turns a panic raised while walking a page into an error
// record so a single malformed page never escapes the extractor.
func recoverExtraction(name string, logger *slog.Logger, rec **camspec.Record) {
	if r := recover(); r != nil {
		logger.Error("extraction failed", "extractor", name, "panic", r)
		*rec = camspec.ErrorRecord(camspec.Errorf(camspec.EINTERNAL, "%s extraction failed: %v", name, r))
	}
}

// setGeneral stores a general-information field, logging a miss.
func setGeneral(rec *camspec.Record, key, value string, logger *slog.Logger) {
	if value == "" {
		logger.Warn("general information not found", "field", key)
		return
	}
	rec.EnsureSection(camspec.GeneralInformation).SetScalar(key, value)
	logger.Debug("general information extracted", "field", key, "value", value)
}
