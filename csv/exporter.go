// Package csv exports specification records as delimited text.
package csv

import (
	"encoding/csv"
	"io"
	"slices"

	"github.com/fwojciec/camspec"
	"github.com/fwojciec/camspec/fs"
)

// ColumnURL is the leading column of batch exports.
const ColumnURL = "URL"

// Ensure Exporter implements camspec.Exporter at compile time.
var _ camspec.Exporter = (*Exporter)(nil)

// Exporter writes flattened records as CSV with a header row.
type Exporter struct {
	comma     rune
	separator string
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithComma sets the field delimiter.
func WithComma(r rune) Option {
	return func(e *Exporter) {
		e.comma = r
	}
}

// WithSeparator sets the string joining the section, key and subkey of a
// column name.
func WithSeparator(sep string) Option {
	return func(e *Exporter) {
		e.separator = sep
	}
}

// NewExporter creates a new Exporter.
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{
		comma:     ',',
		separator: camspec.DefaultSeparator,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Format returns camspec.FormatCSV.
func (e *Exporter) Format() camspec.Format {
	return camspec.FormatCSV
}

// Export writes r as a header row and a single data row, columns in the
// record's order.
func (e *Exporter) Export(r *camspec.Record, path string) error {
	if err := camspec.CheckExportable(r); err != nil {
		return err
	}
	flat := camspec.Flatten(r, e.separator)
	if flat.Len() == 0 {
		return camspec.Errorf(camspec.EINVALID, "no data to export")
	}

	header := flat.Keys()
	row := make([]string, len(header))
	for i, k := range header {
		row[i], _ = flat.Get(k)
	}
	return e.write(path, header, [][]string{row})
}

// ExportBatch writes one row per result. Columns are the URL followed by the
// sorted union of every flattened key; missing cells are empty.
func (e *Exporter) ExportBatch(results []camspec.BatchResult, path string) error {
	if err := camspec.CheckExportableBatch(results); err != nil {
		return err
	}

	flats := make([]*camspec.Fields, len(results))
	seen := make(map[string]bool)
	var columns []string
	for i, res := range results {
		flats[i] = camspec.Flatten(res.Record, e.separator)
		for _, k := range flats[i].Keys() {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	slices.Sort(columns)

	header := append([]string{ColumnURL}, columns...)
	rows := make([][]string, len(results))
	for i, res := range results {
		row := make([]string, len(header))
		row[0] = res.URL
		for j, k := range columns {
			row[j+1], _ = flats[i].Get(k)
		}
		rows[i] = row
	}
	return e.write(path, header, rows)
}

func (e *Exporter) write(path string, header []string, rows [][]string) error {
	return fs.WriteFile(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		cw.Comma = e.comma
		if err := cw.Write(header); err != nil {
			return err
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
		return cw.Error()
	})
}
