// Package json exports specification records as JSON documents.
package json

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/fwojciec/camspec"
	"github.com/fwojciec/camspec/fs"
)

// Indentation of exported documents.
const (
	RecordIndent = "    "
	BatchIndent  = "  "
)

// Ensure Exporter implements camspec.Exporter at compile time.
var _ camspec.Exporter = (*Exporter)(nil)

// Exporter writes records as indented JSON objects whose members follow the
// record's section and key order. Non-ASCII text and markup characters are
// written as-is.
type Exporter struct{}

// NewExporter creates a new Exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Format returns camspec.FormatJSON.
func (e *Exporter) Format() camspec.Format {
	return camspec.FormatJSON
}

// Export writes r to path.
func (e *Exporter) Export(r *camspec.Record, path string) error {
	if err := camspec.CheckExportable(r); err != nil {
		return err
	}
	data, err := r.MarshalJSON()
	if err != nil {
		return err
	}
	return fs.WriteFile(path, func(w io.Writer) error {
		return writeIndented(w, data, RecordIndent)
	})
}

// ExportBatch writes one object mapping every URL to its record, failed
// records included as {"error": ...}.
func (e *Exporter) ExportBatch(results []camspec.BatchResult, path string) error {
	if err := camspec.CheckExportableBatch(results); err != nil {
		return err
	}
	data, err := MarshalBatch(results)
	if err != nil {
		return err
	}
	return fs.WriteFile(path, func(w io.Writer) error {
		return writeIndented(w, data, BatchIndent)
	})
}

// MarshalBatch encodes results as a compact JSON object keyed by URL in
// batch order. A missing record encodes as an empty object.
func MarshalBatch(results []camspec.BatchResult) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, res := range results {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(res.URL); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1)
		buf.WriteByte(':')

		rec := res.Record
		if rec == nil {
			rec = camspec.NewRecord()
		}
		data, err := rec.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeIndented(w io.Writer, data []byte, indent string) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", indent); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
