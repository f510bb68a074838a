package camspec

import "slices"

// Format names an export file format.
type Format string

// Supported export formats.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXML  Format = "xml"
	FormatYAML Format = "yaml"
)

// Formats lists every supported export format.
func Formats() []Format {
	return []Format{FormatJSON, FormatCSV, FormatXLSX, FormatXML, FormatYAML}
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !slices.Contains(Formats(), f) {
		return "", Errorf(EINVALID, "unsupported export format %q", s)
	}
	return f, nil
}

// Exporter writes records to a destination file.
type Exporter interface {
	// Export writes one canonical record to path.
	// Returns EINVALID without touching path when the record is nil,
	// empty or an error stand-in.
	Export(r *Record, path string) error

	// ExportBatch writes the results of a batch to a single file at path.
	// Returns EINVALID when there is nothing to export.
	ExportBatch(results []BatchResult, path string) error

	// Format returns the format the exporter writes.
	Format() Format
}

// CheckExportable returns EINVALID when r cannot be exported.
func CheckExportable(r *Record) error {
	switch {
	case r.Empty():
		return Errorf(EINVALID, "no data to export")
	case r.Failed():
		return Errorf(EINVALID, "cannot export failed record: %s", r.Error)
	}
	return nil
}

// CheckExportableBatch returns EINVALID when results is empty.
func CheckExportableBatch(results []BatchResult) error {
	if len(results) == 0 {
		return Errorf(EINVALID, "no data to export")
	}
	return nil
}
