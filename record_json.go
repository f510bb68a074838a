package camspec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the record as a JSON object whose members follow the
// record's section order. An error stand-in encodes as {"error": "..."}.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if r.Failed() {
		buf.WriteString(`{"error":`)
		writeJSONString(&buf, r.Error)
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONString(&buf, name)
		buf.WriteByte(':')
		writeSection(&buf, r.sections[name])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes the section as an ordered JSON object.
func (s *Section) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	writeSection(&buf, s)
	return buf.Bytes(), nil
}

// MarshalJSON encodes the fields as an ordered JSON object.
func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	writeFields(&buf, f)
	return buf.Bytes(), nil
}

func writeSection(buf *bytes.Buffer, s *Section) {
	buf.WriteByte('{')
	for i, key := range s.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONString(buf, key)
		buf.WriteByte(':')
		writeValue(buf, s.Get(key))
	}
	buf.WriteByte('}')
}

func writeValue(buf *bytes.Buffer, v *Value) {
	switch v.Kind {
	case KindGroup:
		writeFields(buf, v.Group)
	case KindRecords:
		buf.WriteByte('[')
		for i, row := range v.Rows {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeFields(buf, row)
		}
		buf.WriteByte(']')
	default:
		writeJSONString(buf, v.Text)
	}
}

func writeFields(buf *bytes.Buffer, f *Fields) {
	buf.WriteByte('{')
	for i, key := range f.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		v, _ := f.Get(key)
		writeJSONString(buf, key)
		buf.WriteByte(':')
		writeJSONString(buf, v)
	}
	buf.WriteByte('}')
}

// writeJSONString writes s as a JSON string without HTML escaping.
func writeJSONString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	// Encode terminates with a newline.
	buf.Truncate(buf.Len() - 1)
}

// UnmarshalJSON decodes a record previously encoded with MarshalJSON,
// preserving the order of sections, keys and record-list columns.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	*r = Record{}
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return err
		}
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if s, ok := tok.(string); ok && name == "error" {
			r.Error = s
			continue
		}
		if tok != json.Delim('{') {
			return Errorf(EINVALID, "section %q: expected object", name)
		}
		sec := NewSection()
		for dec.More() {
			key, err := readKey(dec)
			if err != nil {
				return err
			}
			v, err := readValue(dec)
			if err != nil {
				return fmt.Errorf("section %q key %q: %w", name, key, err)
			}
			sec.Set(key, v)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return err
		}
		r.SetSection(name, sec)
	}
	return expectDelim(dec, '}')
}

func readValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch tok {
	case json.Delim('{'):
		f, err := readFieldsBody(dec)
		if err != nil {
			return nil, err
		}
		return Group(f), nil
	case json.Delim('['):
		rows := []*Fields{}
		for dec.More() {
			if err := expectDelim(dec, '{'); err != nil {
				return nil, err
			}
			row, err := readFieldsBody(dec)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		if err := expectDelim(dec, ']'); err != nil {
			return nil, err
		}
		return Records(rows...), nil
	}
	return Scalar(scalarText(tok)), nil
}

// readFieldsBody reads object members after the opening brace.
func readFieldsBody(dec *json.Decoder) (*Fields, error) {
	f := &Fields{}
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if _, ok := tok.(json.Delim); ok {
			return nil, Errorf(EINVALID, "field %q: nested value not allowed", key)
		}
		f.Set(key, scalarText(tok))
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return f, nil
}

func scalarText(tok json.Token) string {
	switch t := tok.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", Errorf(EINVALID, "expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != want {
		return Errorf(EINVALID, "expected %q, got %v", want, tok)
	}
	return nil
}
