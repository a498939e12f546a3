// Package document implements the typed field-bag document model: a
// stable string identifier plus an ordered name→value mapping.
package document

import (
	"fmt"
)

// Kind tags which variant a FieldValue holds.
type Kind uint8

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindBool
)

// FieldValue is the closed sum of field value variants: text, signed
// 64-bit integer, 64-bit float, boolean. New variants are
// added by extending this sum, never by an open subtype hierarchy.
type FieldValue struct {
	kind Kind
	text string
	i    int64
	f    float64
	b    bool
}

func Text(v string) FieldValue  { return FieldValue{kind: KindText, text: v} }
func Int(v int64) FieldValue    { return FieldValue{kind: KindInt, i: v} }
func Float(v float64) FieldValue { return FieldValue{kind: KindFloat, f: v} }
func Bool(v bool) FieldValue    { return FieldValue{kind: KindBool, b: v} }

func (v FieldValue) Kind() Kind { return v.kind }

// Text returns the text payload and whether the value holds one.
func (v FieldValue) Text() (string, bool) { return v.text, v.kind == KindText }

// Int returns the integer payload and whether the value holds one.
func (v FieldValue) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Float returns the float payload and whether the value holds one.
func (v FieldValue) Float() (float64, bool) { return v.f, v.kind == KindFloat }

// Bool returns the boolean payload and whether the value holds one.
func (v FieldValue) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// byteSize is the serialized-length estimate used by the cache for byte
// accounting.
func (v FieldValue) byteSize() int {
	switch v.kind {
	case KindText:
		return len(v.text)
	case KindInt, KindFloat:
		return 8
	case KindBool:
		return 1
	default:
		return 0
	}
}

func (v FieldValue) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	default:
		return ""
	}
}

// FieldEntry is one (name, value) pair as observed through ordered
// iteration.
type FieldEntry struct {
	Name  string
	Value FieldValue
}

// Document is a caller-supplied record with a stable id and named fields.
// Documents are value objects from the caller's perspective; the index
// owns its internal copy once handed a Document.
type Document struct {
	id     string
	fields []FieldEntry
	index  map[string]int // name -> position in fields, for overwrite-on-duplicate
}

// New constructs an empty document with the given stable identifier.
func New(id string) *Document {
	return &Document{id: id, index: make(map[string]int)}
}

// ID returns the document's stable identifier.
func (d *Document) ID() string { return d.id }

// WithField sets a field, overwriting any existing value for the same
// name in place (insertion order is preserved on overwrite).
// Returns the document so calls chain: document.New(id).WithField(...).
func (d *Document) WithField(name string, value FieldValue) *Document {
	if pos, ok := d.index[name]; ok {
		d.fields[pos].Value = value
		return d
	}
	d.index[name] = len(d.fields)
	d.fields = append(d.fields, FieldEntry{Name: name, Value: value})
	return d
}

// Field returns the value stored under name, if any.
func (d *Document) Field(name string) (FieldValue, bool) {
	pos, ok := d.index[name]
	if !ok {
		return FieldValue{}, false
	}
	return d.fields[pos].Value, true
}

// Fields returns the fields in insertion order. The returned slice is a
// copy; mutating it does not affect the document.
func (d *Document) Fields() []FieldEntry {
	out := make([]FieldEntry, len(d.fields))
	copy(out, d.fields)
	return out
}

// Clone returns a deep copy, used by the index to take ownership of a
// caller-supplied document without aliasing its internal slices.
func (d *Document) Clone() *Document {
	c := &Document{id: d.id, index: make(map[string]int, len(d.index))}
	c.fields = make([]FieldEntry, len(d.fields))
	copy(c.fields, d.fields)
	for k, v := range d.index {
		c.index[k] = v
	}
	return c
}

// Size is the byte-accounting figure used by the cache: the
// identifier length plus every field name's length plus every value's
// serialized length.
func (d *Document) Size() int {
	n := len(d.id)
	for _, f := range d.fields {
		n += len(f.Name) + f.Value.byteSize()
	}
	return n
}
