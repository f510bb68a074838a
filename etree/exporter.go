// Package etree exports specification records as XML documents.
package etree

import (
	"io"
	"strconv"

	"github.com/beevik/etree"
	"github.com/fwojciec/camspec"
	"github.com/fwojciec/camspec/fs"
)

// Element and attribute names of exported documents.
const (
	RecordElement = "camera"
	BatchElement  = "cameras"
	RowElement    = "row"
	NameAttr      = "name"
	URLAttr       = "url"
	IndexAttr     = "index"
	ErrorAttr     = "error"
)

// Ensure Exporter implements camspec.Exporter at compile time.
var _ camspec.Exporter = (*Exporter)(nil)

// Exporter writes records as XML. Sections, keys and subkeys become nested
// elements named by camspec.SanitizeKey that carry the original text in a
// name attribute; record-list entries become row elements.
type Exporter struct {
	indent int
}

// NewExporter creates a new Exporter.
func NewExporter() *Exporter {
	return &Exporter{indent: 2}
}

// Format returns camspec.FormatXML.
func (e *Exporter) Format() camspec.Format {
	return camspec.FormatXML
}

// Export writes r to path.
func (e *Exporter) Export(r *camspec.Record, path string) error {
	if err := camspec.CheckExportable(r); err != nil {
		return err
	}
	doc := newDocument()
	appendRecord(doc.CreateElement(RecordElement), r)
	return e.save(doc, path)
}

// ExportBatch writes one camera element per result, in batch order.
// Failed records appear as empty elements with an error attribute.
func (e *Exporter) ExportBatch(results []camspec.BatchResult, path string) error {
	if err := camspec.CheckExportableBatch(results); err != nil {
		return err
	}
	doc := newDocument()
	root := doc.CreateElement(BatchElement)
	for _, res := range results {
		el := root.CreateElement(RecordElement)
		el.CreateAttr(URLAttr, res.URL)
		appendRecord(el, res.Record)
	}
	return e.save(doc, path)
}

func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return doc
}

func appendRecord(parent *etree.Element, r *camspec.Record) {
	if r.Failed() {
		parent.CreateAttr(ErrorAttr, r.Error)
		return
	}
	for _, name := range r.Names() {
		sec := r.Section(name)
		secEl := createNamed(parent, name)
		for _, key := range sec.Keys() {
			appendValue(createNamed(secEl, key), sec.Get(key))
		}
	}
}

func appendValue(el *etree.Element, v *camspec.Value) {
	switch v.Kind {
	case camspec.KindScalar:
		el.SetText(v.Text)
	case camspec.KindGroup:
		appendFields(el, v.Group)
	case camspec.KindRecords:
		for i, row := range v.Rows {
			rowEl := el.CreateElement(RowElement)
			rowEl.CreateAttr(IndexAttr, strconv.Itoa(i+1))
			appendFields(rowEl, row)
		}
	}
}

func appendFields(parent *etree.Element, f *camspec.Fields) {
	for _, key := range f.Keys() {
		val, _ := f.Get(key)
		createNamed(parent, key).SetText(val)
	}
}

func createNamed(parent *etree.Element, name string) *etree.Element {
	tag := camspec.SanitizeKey(name)
	if tag == "" {
		tag = "key"
	}
	el := parent.CreateElement(tag)
	el.CreateAttr(NameAttr, name)
	return el
}

func (e *Exporter) save(doc *etree.Document, path string) error {
	doc.Indent(e.indent)
	return fs.WriteFile(path, func(w io.Writer) error {
		_, err := doc.WriteTo(w)
		return err
	})
}
