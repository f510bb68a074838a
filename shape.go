package camspec

import "strconv"

// DefaultSeparator joins key path segments in Flatten.
const DefaultSeparator = "."

// Column names emitted by Tabularize.
const (
	ColumnCategory = "Category"
	ColumnProperty = "Property"
	ColumnValue    = "Value"
	ColumnRow      = "Row"
)

// Flatten walks r depth-first and returns one entry per scalar leaf keyed
// by "section<sep>key" or "section<sep>key<sep>subkey". Record lists are
// skipped; they only appear in the Tabularize projection. An error
// stand-in flattens to a single "error" entry.
func Flatten(r *Record, sep string) *Fields {
	out := &Fields{}
	if r == nil {
		return out
	}
	if r.Failed() {
		out.Set("error", r.Error)
		return out
	}
	for _, name := range r.Names() {
		sec := r.Section(name)
		for _, key := range sec.Keys() {
			v := sec.Get(key)
			prefix := name + sep + key
			switch v.Kind {
			case KindScalar:
				out.Set(prefix, v.Text)
			case KindGroup:
				for _, sub := range v.Group.Keys() {
					val, _ := v.Group.Get(sub)
					out.Set(prefix+sep+sub, val)
				}
			}
		}
	}
	return out
}

// Table is the tabular projection of one section.
type Table struct {
	Section string
	Rows    []*Fields
}

// Columns returns the union of the row keys in first-seen order.
func (t *Table) Columns() []string {
	seen := make(map[string]bool)
	var cols []string
	for _, row := range t.Rows {
		for _, k := range row.Keys() {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}

// Tabularize projects r into one table per section, in section order.
// Scalars of GeneralInformation become {Property, Value} rows. Elsewhere a
// scalar becomes {Category: "", Property, Value}, every leaf of a grouped
// value {Category: key, Property, Value}, and every element of a record
// list {Category: key, Row: index} followed by its own columns. Sections
// that produce no rows are omitted.
func Tabularize(r *Record) []*Table {
	if r == nil || r.Failed() {
		return nil
	}
	var tables []*Table
	for _, name := range r.Names() {
		sec := r.Section(name)
		t := &Table{Section: name}
		for _, key := range sec.Keys() {
			t.Rows = append(t.Rows, tabularizeValue(name, key, sec.Get(key))...)
		}
		if len(t.Rows) > 0 {
			tables = append(tables, t)
		}
	}
	return tables
}

func tabularizeValue(section, key string, v *Value) []*Fields {
	var rows []*Fields
	switch v.Kind {
	case KindScalar:
		if section == GeneralInformation {
			return []*Fields{NewFields(ColumnProperty, key, ColumnValue, v.Text)}
		}
		return []*Fields{NewFields(ColumnCategory, "", ColumnProperty, key, ColumnValue, v.Text)}
	case KindGroup:
		for _, sub := range v.Group.Keys() {
			val, _ := v.Group.Get(sub)
			rows = append(rows, NewFields(ColumnCategory, key, ColumnProperty, sub, ColumnValue, val))
		}
	case KindRecords:
		for i, rec := range v.Rows {
			row := NewFields(ColumnCategory, key, ColumnRow, strconv.Itoa(i+1))
			for _, col := range rec.Keys() {
				val, _ := rec.Get(col)
				row.Set(col, val)
			}
			rows = append(rows, row)
		}
	}
	return rows
}
