// Package yaml exports specification records as YAML documents.
package yaml

import (
	"io"

	"github.com/fwojciec/camspec"
	"github.com/fwojciec/camspec/fs"
	"gopkg.in/yaml.v3"
)

// Ensure Exporter implements camspec.Exporter at compile time.
var _ camspec.Exporter = (*Exporter)(nil)

// Exporter writes records as YAML mappings that keep the record's section
// and key order.
type Exporter struct {
	indent int
}

// NewExporter creates a new Exporter.
func NewExporter() *Exporter {
	return &Exporter{indent: 2}
}

// Format returns camspec.FormatYAML.
func (e *Exporter) Format() camspec.Format {
	return camspec.FormatYAML
}

// Export writes r to path.
func (e *Exporter) Export(r *camspec.Record, path string) error {
	if err := camspec.CheckExportable(r); err != nil {
		return err
	}
	return e.save(RecordNode(r), path)
}

// ExportBatch writes a mapping from every URL to its record, in batch order.
func (e *Exporter) ExportBatch(results []camspec.BatchResult, path string) error {
	if err := camspec.CheckExportableBatch(results); err != nil {
		return err
	}
	root := mapping()
	for _, res := range results {
		root.Content = append(root.Content, scalar(res.URL), RecordNode(res.Record))
	}
	return e.save(root, path)
}

// RecordNode converts r into an ordered YAML mapping node. A failed record
// becomes {error: description}.
func RecordNode(r *camspec.Record) *yaml.Node {
	n := mapping()
	if r.Failed() {
		n.Content = append(n.Content, scalar("error"), scalar(r.Error))
		return n
	}
	for _, name := range r.Names() {
		sec := r.Section(name)
		body := mapping()
		for _, key := range sec.Keys() {
			body.Content = append(body.Content, scalar(key), valueNode(sec.Get(key)))
		}
		n.Content = append(n.Content, scalar(name), body)
	}
	return n
}

func valueNode(v *camspec.Value) *yaml.Node {
	switch v.Kind {
	case camspec.KindGroup:
		return fieldsNode(v.Group)
	case camspec.KindRecords:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, row := range v.Rows {
			seq.Content = append(seq.Content, fieldsNode(row))
		}
		return seq
	}
	return scalar(v.Text)
}

func fieldsNode(f *camspec.Fields) *yaml.Node {
	n := mapping()
	for _, key := range f.Keys() {
		val, _ := f.Get(key)
		n.Content = append(n.Content, scalar(key), scalar(val))
	}
	return n
}

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

// scalar tags every value as a string so text such as "true", "1.0" or
// "null" stays a string.
func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func (e *Exporter) save(n *yaml.Node, path string) error {
	return fs.WriteFile(path, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(e.indent)
		if err := enc.Encode(n); err != nil {
			return err
		}
		return enc.Close()
	})
}
