package camspec

import (
	"errors"
	"slices"
)

// GeneralInformation is the section that always leads a canonical record.
const GeneralInformation = "General information"

// Well-known keys of the GeneralInformation section.
const (
	KeyProductTitle = "Product Title"
	KeyProductType  = "Product Type"
	KeySourceURL    = "Source URL"
	KeyManufacturer = "Manufacturer"
)

// Fields is an insertion-ordered map of string keys to string values.
// The zero value is ready to use.
type Fields struct {
	keys   []string
	values map[string]string
}

// NewFields returns Fields populated with the given key/value pairs.
// It panics if pairs has an odd length.
func NewFields(pairs ...string) *Fields {
	if len(pairs)%2 != 0 {
		panic("camspec: NewFields requires key/value pairs")
	}
	f := &Fields{}
	for i := 0; i < len(pairs); i += 2 {
		f.Set(pairs[i], pairs[i+1])
	}
	return f
}

// Set assigns value to key. A new key is appended to the key order;
// an existing key keeps its position.
func (f *Fields) Set(key, value string) {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value stored under key.
func (f *Fields) Get(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	v, ok := f.values[key]
	return v, ok
}

// Delete removes key.
func (f *Fields) Delete(key string) {
	if f == nil {
		return
	}
	if _, ok := f.values[key]; !ok {
		return
	}
	delete(f.values, key)
	f.keys = slices.DeleteFunc(f.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in insertion order.
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	return slices.Clone(f.keys)
}

// Len returns the number of keys.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Map returns the fields as a plain map.
func (f *Fields) Map() map[string]string {
	m := make(map[string]string, f.Len())
	for _, k := range f.Keys() {
		m[k] = f.values[k]
	}
	return m
}

// Kind identifies the shape of a section value.
type Kind int

// Section value shapes.
const (
	KindScalar Kind = iota
	KindGroup
	KindRecords
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindGroup:
		return "group"
	case KindRecords:
		return "records"
	}
	return "unknown"
}

// Value is one entry of a section body: a scalar string, a labeled
// subsection of scalars, or a list of records sharing a column schema.
type Value struct {
	Kind  Kind
	Text  string
	Group *Fields
	Rows  []*Fields
}

// Scalar returns a scalar value.
func Scalar(s string) *Value {
	return &Value{Kind: KindScalar, Text: s}
}

// Group returns a grouped value. A nil f yields an empty group.
func Group(f *Fields) *Value {
	if f == nil {
		f = &Fields{}
	}
	return &Value{Kind: KindGroup, Group: f}
}

// Records returns a record-list value.
func Records(rows ...*Fields) *Value {
	if rows == nil {
		rows = []*Fields{}
	}
	return &Value{Kind: KindRecords, Rows: rows}
}

// Section is an insertion-ordered map of keys to values.
// The zero value is ready to use.
type Section struct {
	keys   []string
	values map[string]*Value
}

// NewSection returns an empty section.
func NewSection() *Section {
	return &Section{}
}

// Set assigns v to key, keeping the position of an existing key.
func (s *Section) Set(key string, v *Value) {
	if s.values == nil {
		s.values = make(map[string]*Value)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = v
}

// SetScalar is shorthand for Set(key, Scalar(value)).
func (s *Section) SetScalar(key, value string) {
	s.Set(key, Scalar(value))
}

// Get returns the value stored under key or nil.
func (s *Section) Get(key string) *Value {
	if s == nil {
		return nil
	}
	return s.values[key]
}

// Delete removes key.
func (s *Section) Delete(key string) {
	if s == nil {
		return
	}
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.keys = slices.DeleteFunc(s.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in insertion order.
func (s *Section) Keys() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.keys)
}

// Len returns the number of keys.
func (s *Section) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Record is a Specification Record: an ordered mapping of section names to
// section bodies. A record with a non-empty Error is a stand-in for a failed
// extraction and carries no sections.
type Record struct {
	Error string

	names    []string
	sections map[string]*Section
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{}
}

// ErrorRecord returns a record holding only the description of err.
// Application errors contribute their message; other errors their text.
func ErrorRecord(err error) *Record {
	var e *Error
	if errors.As(err, &e) {
		return &Record{Error: e.Message}
	}
	return &Record{Error: err.Error()}
}

// Failed reports whether the record is an error stand-in.
func (r *Record) Failed() bool {
	return r != nil && r.Error != ""
}

// Empty reports whether the record carries neither sections nor an error.
func (r *Record) Empty() bool {
	return r == nil || (r.Error == "" && len(r.names) == 0)
}

// Section returns the named section or nil.
func (r *Record) Section(name string) *Section {
	if r == nil {
		return nil
	}
	return r.sections[name]
}

// EnsureSection returns the named section, appending an empty one if absent.
func (r *Record) EnsureSection(name string) *Section {
	if s, ok := r.sections[name]; ok {
		return s
	}
	s := NewSection()
	r.SetSection(name, s)
	return s
}

// SetSection assigns s to name, keeping the position of an existing name.
func (r *Record) SetSection(name string, s *Section) {
	if r.sections == nil {
		r.sections = make(map[string]*Section)
	}
	if _, ok := r.sections[name]; !ok {
		r.names = append(r.names, name)
	}
	r.sections[name] = s
}

// DeleteSection removes the named section.
func (r *Record) DeleteSection(name string) {
	if _, ok := r.sections[name]; !ok {
		return
	}
	delete(r.sections, name)
	r.names = slices.DeleteFunc(r.names, func(n string) bool { return n == name })
}

// Names returns the section names in order.
func (r *Record) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.names)
}

// Len returns the number of sections.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// Map converts the record into plain Go values: scalars become strings,
// groups map[string]string and record lists []map[string]string.
// An error stand-in becomes {"error": description}.
func (r *Record) Map() map[string]any {
	if r == nil {
		return nil
	}
	if r.Failed() {
		return map[string]any{"error": r.Error}
	}
	out := make(map[string]any, len(r.names))
	for _, name := range r.names {
		sec := r.sections[name]
		body := make(map[string]any, sec.Len())
		for _, key := range sec.keys {
			body[key] = sec.values[key].plain()
		}
		out[name] = body
	}
	return out
}

func (v *Value) plain() any {
	switch v.Kind {
	case KindGroup:
		return v.Group.Map()
	case KindRecords:
		rows := make([]map[string]string, 0, len(v.Rows))
		for _, row := range v.Rows {
			rows = append(rows, row.Map())
		}
		return rows
	}
	return v.Text
}

// BatchResult pairs a source address with the record scraped from it.
type BatchResult struct {
	URL    string
	Record *Record
}
