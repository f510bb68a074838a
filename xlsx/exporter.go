// Package xlsx exports specification records as spreadsheet workbooks.
package xlsx

import (
	"io"

	"github.com/fwojciec/camspec"
	"github.com/fwojciec/camspec/fs"
	"github.com/tealeg/xlsx/v2"
)

// Sheet naming.
const (
	GeneralSheet     = "General Info"
	InfoSuffix       = "_Info"
	MaxSectionPrefix = 20
)

// Ensure Exporter implements camspec.Exporter at compile time.
var _ camspec.Exporter = (*Exporter)(nil)

// Exporter writes each section of a record to its own sheet using the
// tabular projection.
type Exporter struct{}

// NewExporter creates a new Exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Format returns camspec.FormatXLSX.
func (e *Exporter) Format() camspec.Format {
	return camspec.FormatXLSX
}

// Export writes r to a workbook at path. General information goes to the
// "General Info" sheet and every other section to a sheet of its own name.
func (e *Exporter) Export(r *camspec.Record, path string) error {
	if err := camspec.CheckExportable(r); err != nil {
		return err
	}

	f := xlsx.NewFile()
	names := newSheetNames()
	for _, t := range camspec.Tabularize(r) {
		name := t.Section
		if name == camspec.GeneralInformation {
			name = GeneralSheet
		}
		if err := addTable(f, names.next(name), t); err != nil {
			return err
		}
	}
	return save(f, path)
}

// ExportBatch writes every successful record of a batch to one workbook.
// A record contributes a "<name>_Info" sheet for its general information
// and a "<name>_<section>" sheet per section, where name derives from the
// URL and section is cut to MaxSectionPrefix runes. Failed records are
// skipped.
func (e *Exporter) ExportBatch(results []camspec.BatchResult, path string) error {
	if err := camspec.CheckExportableBatch(results); err != nil {
		return err
	}

	f := xlsx.NewFile()
	names := newSheetNames()
	for _, res := range results {
		prefix := SheetName(fs.BaseName(res.URL))
		for _, t := range camspec.Tabularize(res.Record) {
			name := prefix + InfoSuffix
			if t.Section != camspec.GeneralInformation {
				name = prefix + "_" + truncate(t.Section, MaxSectionPrefix)
			}
			if err := addTable(f, names.next(name), t); err != nil {
				return err
			}
		}
	}
	return save(f, path)
}

func addTable(f *xlsx.File, name string, t *camspec.Table) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return camspec.Errorf(camspec.EINTERNAL, "add sheet %q: %v", name, err)
	}

	columns := t.Columns()
	header := sheet.AddRow()
	for _, col := range columns {
		header.AddCell().SetString(col)
	}
	for _, fields := range t.Rows {
		row := sheet.AddRow()
		for _, col := range columns {
			val, _ := fields.Get(col)
			row.AddCell().SetString(val)
		}
	}
	return nil
}

func save(f *xlsx.File, path string) error {
	if len(f.Sheets) == 0 {
		return camspec.Errorf(camspec.EINVALID, "no data to export")
	}
	return fs.WriteFile(path, func(w io.Writer) error {
		return f.Write(w)
	})
}
