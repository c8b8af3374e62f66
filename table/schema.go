// Package table provides the columnar storage model the engine runs against:
// logical types, schemas, the column Vector abstraction, and the immutable
// Table with cheap structural slicing and selection.
package table

import (
	"fmt"
	"strings"
)

// LogicalType is the engine-level type of a column, independent of how the
// values are physically stored.
type LogicalType int

const (
	Unknown LogicalType = iota
	Integer
	Float
	Boolean
	String
	Date
	Timestamp
	Binary
	Array
	Struct
)

// String returns the lowercase name of the logical type.
func (t LogicalType) String() string {
	switch t {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	case String:
		return "string"
	case Date:
		return "date"
	case Timestamp:
		return "timestamp"
	case Binary:
		return "binary"
	case Array:
		return "array"
	case Struct:
		return "struct"
	default:
		return "unknown"
	}
}

// Field describes a single column: its name, logical type, and nullability.
type Field struct {
	Name     string
	Type     LogicalType
	Nullable bool
}

// Schema is an ordered list of fields with unique names. A schema is replaced
// wholesale when an operation changes table structure; it is never mutated.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema builds a schema from the given fields. Field names must be
// non-empty and unique.
func NewSchema(fields ...Field) (Schema, error) {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return Schema{}, fmt.Errorf("field %d has an empty name", i)
		}
		if _, dup := index[f.Name]; dup {
			return Schema{}, fmt.Errorf("duplicate field name %q", f.Name)
		}
		index[f.Name] = i
	}
	return Schema{fields: fields, index: index}, nil
}

// MustSchema is NewSchema that panics on error, for statically known schemas.
func MustSchema(fields ...Field) Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of fields.
func (s Schema) Len() int {
	return len(s.fields)
}

// Fields returns the fields in schema order.
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field returns the named field and whether it exists.
func (s Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Has reports whether the schema contains the named field.
func (s Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Names returns the field names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Select returns a new schema restricted to the named fields, in the order
// given. Unknown names are an error.
func (s Schema) Select(names ...string) (Schema, error) {
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		f, ok := s.Field(name)
		if !ok {
			return Schema{}, fmt.Errorf("field %q not found in schema (%s)", name, strings.Join(s.Names(), ", "))
		}
		fields = append(fields, f)
	}
	return NewSchema(fields...)
}
