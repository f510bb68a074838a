package mock

import "github.com/fwojciec/camspec"

var _ camspec.Exporter = (*Exporter)(nil)

// Exporter is a mock implementation of camspec.Exporter.
type Exporter struct {
	ExportFn      func(r *camspec.Record, path string) error
	ExportBatchFn func(results []camspec.BatchResult, path string) error
	FormatFn      func() camspec.Format
}

func (e *Exporter) Export(r *camspec.Record, path string) error {
	return e.ExportFn(r, path)
}

func (e *Exporter) ExportBatch(results []camspec.BatchResult, path string) error {
	return e.ExportBatchFn(results, path)
}

func (e *Exporter) Format() camspec.Format {
	return e.FormatFn()
}
