package record

import (
	"bytes"
	"encoding/json"
)

// Field is one column of a row.
type Field struct {
	Name  string
	Value any
}

// Record is an ordered field mapping: the columns of one row in the order
// the database returned them. The set of columns is whatever the source
// table defines; Record never validates it.
type Record struct {
	fields []Field
}

// New creates a record from fields, keeping their order.
func New(fields ...Field) Record {
	r := Record{fields: make([]Field, len(fields))}
	copy(r.fields, fields)
	return r
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Names returns the column names in order.
func (r Record) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

// Fields returns a copy of the fields in order.
func (r Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Get returns the value of the named field and whether it exists.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of an existing field in place. It reports false
// when the record has no such field; Set never adds columns.
func (r *Record) Set(name string, value any) bool {
	for i := range r.fields {
		if r.fields[i].Name == name {
			r.fields[i].Value = value
			return true
		}
	}
	return false
}

// MarshalJSON encodes the record as a JSON object with keys in column
// order. The returned bytes leave HTML characters unescaped, but
// json.Marshal escapes them again when compacting; encode with a
// json.Encoder and SetEscapeHTML(false) to keep them literal.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(f.Name); err != nil {
			return nil, err
		}
		trimNewline(&buf)
		buf.WriteByte(':')
		if err := enc.Encode(f.Value); err != nil {
			return nil, err
		}
		trimNewline(&buf)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Encoder.Encode terminates every value with a newline.
func trimNewline(buf *bytes.Buffer) {
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] == '\n' {
		buf.Truncate(n - 1)
	}
}
